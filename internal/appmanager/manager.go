package appmanager

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"SelloutCentral/api"
	"SelloutCentral/api/auth"
	"SelloutCentral/api/dash"
	"SelloutCentral/api/sellout"
	"SelloutCentral/internal/jobs"
	"SelloutCentral/internal/logger"
	"SelloutCentral/internal/serviceiface"
)

var (
	authDB  *sql.DB
	pgxPool *pgxpool.Pool
)

func SetDB(database *sql.DB) {
	authDB = database
}

func SetPgxPool(pool *pgxpool.Pool) {
	pgxPool = pool
}

func GetPgxPool() *pgxpool.Pool {
	return pgxPool
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"auth": func(cfg map[string]interface{}) serviceiface.Service {
		toInt := func(v interface{}) int {
			switch t := v.(type) {
			case int:
				return t
			case int64:
				return int(t)
			case float64:
				return int(t)
			}
			return 0
		}
		var maxUsers, sessionTimeout int
		if cfg != nil {
			maxUsers = toInt(cfg["max_users"])
			sessionTimeout = toInt(cfg["session_timeout"])
		}
		return auth.NewAuthService(authDB, maxUsers, sessionTimeout)
	},
	"sellout": func(cfg map[string]interface{}) serviceiface.Service {
		return sellout.NewSelloutService(cfg, GetPgxPool())
	},
	"dash": func(cfg map[string]interface{}) serviceiface.Service {
		return dash.NewDashService(cfg, GetPgxPool())
	},
	"cron": func(cfg map[string]interface{}) serviceiface.Service {
		return jobs.NewCronService(cfg)
	},
	"gateway": func(cfg map[string]interface{}) serviceiface.Service {
		return api.NewGatewayService(cfg)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, service := range am.services {
		fmt.Println("Starting service:", service.Name())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}
	sort.Slice(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})
	return seq.Services, nil
}

// AutoRegisterServices builds each configured service and wires the globals
// (auth sessions, logger) the handlers reach for.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) {
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			continue
		}
		service := constructor(svc.Config)
		am.RegisterService(service)
		if svc.Name == "auth" {
			if realAuthSvc, ok := service.(*auth.AuthService); ok {
				api.SetAuthService(realAuthSvc)
				auth.SetGlobalAuthService(realAuthSvc)
			}
		}
	}

	if l, ok := am.GetServiceByName("logger").(*logger.LoggerService); ok {
		logger.SetGlobalLogger(l)
	}
}
