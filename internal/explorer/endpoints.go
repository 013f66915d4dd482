package explorer

// apiPorts are the ports the connect scan probes.
var apiPorts = []int{
	80, 443, 8080, 8443, 9000, 9443, 10000,
	3000, 5000, 8000, 8888, 8008, 7000, 7001,
}

// plausibleStatuses are the HEAD statuses that escalate a path into the
// full-method pass. 404 and 5xx mean the path does not exist; 401/403 mean
// it exists behind auth, and 405 means it exists but dislikes HEAD.
var plausibleStatuses = map[int]bool{
	200: true,
	401: true,
	403: true,
	405: true,
}

// probeMethods is the full-method pass, in test order.
var probeMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// userAgents rotate through the user-agent discovery pass.
var userAgents = []string{
	"Mozilla/5.0 (compatible; API-Client/1.0)",
	"Kronos-Device-Manager/1.0",
	"NovaTech-API-Explorer/1.0",
	"curl/7.68.0",
	"PostmanRuntime/7.26.0",
	"REST-Client/1.0",
	"API-Explorer/1.0",
	"HTTPie/2.3.0",
	"Insomnia/2021.1.0",
}

// configFilePaths are well-known configuration artifacts that leak endpoint
// hints when a firmware build ships them.
var configFilePaths = []string{
	"/config.json",
	"/config.xml",
	"/config.yaml",
	"/config.yml",
	"/settings.json",
	"/settings.xml",
	"/manifest.json",
	"/package.json",
	"/composer.json",
	"/.env",
	"/env.json",
	"/app.config",
	"/web.config",
}

// endpointCatalogue is the fixed path list the HEAD pass probes. It mixes
// generic REST conventions, documentation endpoints, framework defaults, and
// the timing-appliance paths these devices might plausibly serve.
var endpointCatalogue = []string{
	// Standard API roots.
	"/api", "/api/v1", "/api/v2", "/api/v3", "/api/v4",
	"/rest", "/rest/v1", "/rest/v2", "/json", "/json/v1",

	// Configuration and status.
	"/api/config", "/api/configuration", "/api/config/v1",
	"/api/status", "/api/system",
	"/api/status/general", "/api/status/gnss", "/api/status/time", "/api/status/network",

	// Device-specific.
	"/api/kronos", "/api/kronos/config", "/api/kronos/status",
	"/api/satellite", "/api/gnss", "/api/time", "/api/network",
	"/api/gps", "/api/timing", "/api/sync",

	// Management.
	"/api/management", "/api/admin", "/api/user", "/api/auth",
	"/management", "/admin", "/cgi-bin/admin", "/web/admin",

	// Versioned variants.
	"/api/v1.0", "/api/v1.0/status", "/api/v1.0/config",
	"/api/v1.1", "/api/v1.2", "/api/v1.3",
	"/api/v2.0", "/api/v2.0/status", "/api/v2.0/config",

	// Documentation.
	"/openapi.json", "/swagger.json", "/swagger.yaml", "/swagger-ui",
	"/api/docs", "/docs", "/api/documentation", "/swagger", "/redoc",
	"/rapidoc", "/api/schema", "/schema", "/api-docs", "/api/swagger",
	"/swagger/index.html",

	// Alternative shapes.
	"/api.php", "/api.json", "/service", "/services",
	"/api/service", "/api/services", "/api/service/v1", "/webapi",

	// Domain sections as API prefixes.
	"/satellite/api", "/gnss/api", "/time/api", "/network/api",
	"/config/api", "/status/api", "/system/api", "/monitor/api",

	// CGI and embedded-web management.
	"/cgi-bin/api", "/web/api", "/interface/api", "/control/api",
	"/manage", "/manager", "/mgmt", "/managementui",

	// Protocol endpoints.
	"/soap", "/wsdl", "/graphql", "/query", "/gql", "/graph",
	"/soap/v1", "/soap/v2", "/restful", "/rpc", "/jsonrpc", "/xmlrpc",

	// Well-known and health.
	"/.well-known/api", "/.well-known/openapi",
	"/actuator", "/status/health", "/health", "/metrics",
	"/debug", "/info", "/ping", "/echo", "/test", "/status",

	// File-suffixed handlers.
	"/api.asp", "/api.aspx", "/api.jsp", "/api.do",
	"/api.rb", "/api.pl", "/api.py", "/api.js", "/ws/api",

	// Authentication surfaces.
	"/login", "/login/api", "/auth", "/auth/api", "/signin",
	"/token", "/oauth", "/oauth2", "/jwt", "/session",

	// Data movement.
	"/data", "/data/api", "/export", "/export/api",
	"/import", "/import/api", "/sync/api",
	"/backup", "/restore", "/download", "/upload",

	// Monitoring.
	"/monitor", "/diagnostics", "/diagnostics/api",
	"/logs", "/logs/api", "/stats", "/statistics", "/stats/api",
	"/performance", "/healthcheck", "/heartbeat",

	// Device management.
	"/device", "/devices", "/device/api", "/hardware", "/firmware",
	"/update", "/upgrade", "/maintenance",
	"/configuration", "/settings", "/preferences",

	// Time synchronization.
	"/ntp", "/ptp", "/time-sync", "/clock", "/timing",
	"/frequency", "/phase", "/disciplining",

	// Network.
	"/ethernet", "/lan", "/wan", "/ports", "/interfaces",
	"/routing", "/switching", "/vlan", "/qos",

	// Realtime.
	"/ws", "/websocket", "/realtime", "/socket.io", "/signalr",
	"/events", "/streaming",

	// GraphQL tooling.
	"/mutation", "/playground", "/altair", "/graphiql",

	// Service discovery.
	"/discovery", "/registry", "/catalog", "/endpoints",
	"/nodes", "/cluster", "/memberlist",

	// Bare versions.
	"/v1", "/v2", "/v3", "/v4", "/v5",
	"/v1.0", "/v1.1", "/v1.2", "/v2.0", "/v2.1",
	"/latest", "/current", "/stable", "/beta", "/alpha",

	// REST resources.
	"/users", "/user", "/accounts", "/account",
	"/sessions", "/tokens", "/keys",
	"/roles", "/permissions", "/groups",

	// File operations.
	"/files", "/file", "/documents", "/attachments",
	"/media", "/images", "/uploads", "/downloads",

	// Framework defaults.
	"/api/schema/", "/api/?format=json", "/api/?format=api",
	"/explorer",

	// Backup and stale files.
	"/api.bak", "/api.old", "/api.backup", "/api~",
	"/config.json.bak", "/swagger.json.old", "/api.json.backup", "/api.txt",

	// Config and discovery files.
	"/config.json", "/config.xml", "/config.yaml",
	"/settings.json", "/manifest.json", "/package.json",
	"/robots.txt", "/sitemap.xml", "/humans.txt",
	"/.well-known/", "/security.txt",
}
