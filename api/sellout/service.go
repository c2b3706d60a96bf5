package sellout

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"SelloutCentral/api"
	"SelloutCentral/internal/config"
	"SelloutCentral/internal/serviceiface"
)

type SelloutService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewSelloutService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &SelloutService{config: cfg, pool: pool}
}

func (s *SelloutService) Name() string {
	return "sellout"
}

func (s *SelloutService) Start() error {
	go StartSelloutService(s.config, s.pool)
	return nil
}

func (s *SelloutService) Stop() error {
	return nil
}

// activeWizard is the wizard owned by the running service; the cron expiry
// job reaches it through ExpireStaleSessions.
var activeWizard *Wizard

// ExpireStaleSessions expires abandoned wizard sessions. No-op until the
// service has started.
func ExpireStaleSessions() int {
	if activeWizard == nil {
		return 0
	}
	return activeWizard.ExpireStale()
}

// StartSelloutService wires the import wizard routes and serves them.
func StartSelloutService(cfg map[string]interface{}, pool *pgxpool.Pool) {
	uploadDir := config.DefaultUploadFolder
	if v, ok := cfg["upload_folder"].(string); ok && v != "" {
		uploadDir = v
	}
	ttl := time.Duration(config.DefaultWizardTTLMinutes) * time.Minute
	if v, ok := cfg["wizard_ttl_minutes"].(int); ok && v > 0 {
		ttl = time.Duration(v) * time.Minute
	}
	canonical := DefaultChannels
	if raw, ok := cfg["channels"].([]interface{}); ok && len(raw) > 0 {
		canonical = make([]string, 0, len(raw))
		for _, c := range raw {
			if s, ok := c.(string); ok {
				canonical = append(canonical, s)
			}
		}
	}

	store, err := NewFileStore(uploadDir)
	if err != nil {
		log.Fatalf("Sellout Service failed to create upload folder: %v", err)
	}
	wiz := NewWizard(store, ttl)
	activeWizard = wiz

	mux := http.NewServeMux()
	mux.Handle("/sellout/upload", api.SessionMiddleware(UploadSalesReport(store, wiz)))
	mux.Handle("/sellout/sheet", api.SessionMiddleware(SelectSheet(wiz)))
	mux.Handle("/sellout/schema", api.SessionMiddleware(GetImportSchema(wiz)))
	mux.Handle("/sellout/mapping", api.SessionMiddleware(SubmitMapping(wiz)))
	mux.Handle("/sellout/channels", api.SessionMiddleware(GetDistinctChannels(wiz, canonical)))
	mux.Handle("/sellout/homologation", api.SessionMiddleware(SubmitHomologation(wiz, canonical)))
	mux.Handle("/sellout/skus", api.SessionMiddleware(GetInvalidSKUs(pool, wiz)))
	mux.Handle("/sellout/corrections", api.SessionMiddleware(SubmitCorrections(wiz)))
	mux.Handle("/sellout/commit", api.SessionMiddleware(CommitImport(pool, wiz)))
	mux.Handle("/sellout/cancel", api.SessionMiddleware(CancelImport(wiz)))

	port := config.SelloutServicePort
	if v, ok := cfg["port"].(int); ok && v > 0 {
		port = v
	}
	addr := fmt.Sprintf(":%d", port)
	api.LogInfo("Sellout Service started on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Sellout Service failed: %v", err)
	}
}
