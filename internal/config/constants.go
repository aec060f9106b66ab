// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "CourseKeep"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort              = ":8080"
	DefaultLogLevel                = "info"
	DefaultLogFormat               = "json"
	DefaultIncidentWriteTimeoutSec = 5
	DefaultNotifierType            = "log"
)
