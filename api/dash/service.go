package dash

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"SelloutCentral/api"
	"SelloutCentral/internal/config"
	"SelloutCentral/internal/serviceiface"
)

type DashService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewDashService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &DashService{config: cfg, pool: pool}
}

func (s *DashService) Name() string {
	return "dash"
}

func (s *DashService) Start() error {
	go StartDashService(s.pool)
	return nil
}

func (s *DashService) Stop() error {
	return nil
}

// StartDashService serves the read-only ventas aggregations.
func StartDashService(pool *pgxpool.Pool) {
	mux := http.NewServeMux()

	mux.Handle("/dash/sellout/summary", api.SessionMiddleware(GetSelloutSummary(pool)))
	mux.Handle("/dash/sellout/recent", api.SessionMiddleware(GetRecentSales(pool)))
	mux.Handle("/dash/sellout/delete-records", api.SessionMiddleware(DeleteSalesRecords(pool)))

	addr := fmt.Sprintf(":%d", config.DashServicePort)
	api.LogInfo("Dashboard Service started on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Dashboard Service failed: %v", err)
	}
}
