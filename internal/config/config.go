package config

const (
	DefaultTimeZone = "America/Bogota"

	// Wizard expiry sweep: abandoned imports release their temp file on this
	// schedule.
	DefaultExpireSchedule   = "*/10 * * * *"
	DefaultWizardTTLMinutes = 120

	DefaultUploadFolder = "uploads"

	SelloutServicePort = 7143
	DashServicePort    = 4143
	GatewayPort        = 8081
)
