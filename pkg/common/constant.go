package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyBridgeDBType string = "BRIDGE_DB_TYPE"
	EnvKeyBridgeDbPath string = "BRIDGE_DB_PATH"

	EnvKeyBridgeHttpHostPort string = "BRIDGE_HTTP_HOST_PORT"

	EnvKeyBridgeDefaultRate  string = "BRIDGE_DEFAULT_RATE"
	EnvKeyBridgeDefaultBurst string = "BRIDGE_DEFAULT_BURST"

	EnvKeyBridgeSimDrivers string = "BRIDGE_SIM_DRIVERS"

	LoggerNameBridgeCore    string = "bridge_core"
	LoggerNameHub           string = "hub"
	LoggerNameRestfulServer string = "restful_server"

	LoggerFieldBridgeCategory     string = "category"
	LoggerCategoryBridgeValidator string = "validator"
	LoggerCategoryBridgeNotifier  string = "notifier"
	LoggerCategoryBridgeOrch      string = "orchestrator"
	LoggerCategoryBridgeSession   string = "session"
	LoggerCategoryBridgeCalibrate string = "calibration"
)
