package config

const (
	// AppName is the name of the application.
	AppName = "porter"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvConfigPath is the environment variable for the settings document
	// location.
	EnvConfigPath = `CONFIG_PATH`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// ConfigPath is the location of the settings document.
	ConfigPath string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
)
