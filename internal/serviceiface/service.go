package serviceiface

// Service is the unit the app manager sequences: each runs independently and
// is stopped in reverse start order on shutdown.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
