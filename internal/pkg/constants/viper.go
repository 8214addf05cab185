package constants

// Ключи конфигурации viper.
const (
	ViperHostKey             = "host"
	ViperPortKey             = "port"
	ViperDBURLKey            = "db.url"
	ViperDBConnectTimeoutKey = "db.connect_timeout"
	ViperLogLevelKey         = "log.level"
	ViperLogDevKey           = "log.dev"
	ViperModelURLKey         = "model.url"
	ViperModelDeviceKey      = "model.device"
	ViperModelTopKKey        = "model.topk"
	ViperModelTimeoutKey     = "model.timeout"
	ViperCORSOriginsKey      = "cors.allow_origins"
	ViperShutdownTimeoutKey  = "shutdown_timeout"
)

const (
	CtxKeyRequestID = "request_id"

	// NoOffersMessage is what recommend endpoints answer when nothing matches.
	NoOffersMessage = "No local price entries. Try updating data."
)
