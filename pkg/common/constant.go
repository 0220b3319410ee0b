package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyHomeSenseDBType string = "HOMESENSE_DB_TYPE"
	EnvKeyHomeSenseDBPath string = "HOMESENSE_DB_PATH"

	EnvKeyHomeSenseMqttBroker   string = "HOMESENSE_MQTT_BROKER"
	EnvKeyHomeSenseMqttClientID string = "HOMESENSE_MQTT_CLIENT_ID"
	EnvKeyHomeSenseMqttTopic    string = "HOMESENSE_MQTT_TOPIC"

	EnvKeyHomeSenseHttpHostPort string = "HOMESENSE_HTTP_HOST_PORT"

	EnvKeyHomeSenseDefaultRate  string = "HOMESENSE_DEFAULT_RATE"
	EnvKeyHomeSenseDefaultBurst string = "HOMESENSE_DEFAULT_BURST"

	LoggerNameHubCore        string = "hub_core"
	LoggerNameMqttSubscriber string = "mqtt_subscriber"
	LoggerNameRestfulServer  string = "restful_server"
	LoggerNameReporter       string = "reporter"
	LoggerFieldHubCategory   string = "category"
	LoggerCategoryIngest     string = "ingest"
	LoggerCategoryAlert      string = "alert"
	LoggerCategoryQuery      string = "query"
	LoggerCategoryStats      string = "stats"
)
