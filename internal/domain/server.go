package domain

// PackageArgument is a runtime, package or environment argument of a server package.
type PackageArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"is_required,omitempty"`
	Value       string `json:"value,omitempty"`
}

// PackageTransport names how a packaged server talks to its client.
type PackageTransport struct {
	Type string `json:"type"`
}

// Package is an installable distribution of an MCP server.
type Package struct {
	RegistryType         string            `json:"registryType"`
	Identifier           string            `json:"identifier"`
	Version              string            `json:"version"`
	RuntimeHint          string            `json:"runtimeHint"`
	RuntimeArguments     []PackageArgument `json:"runtimeArguments"`
	PackageArguments     []PackageArgument `json:"packageArguments,omitempty"`
	EnvironmentVariables []PackageArgument `json:"environmentVariables,omitempty"`
	Transport            *PackageTransport `json:"transport,omitempty"`
}

// Remote is a hosted endpoint of an MCP server.
type Remote struct {
	TransportType string `json:"transport_type"`
	URL           string `json:"url"`
}

// Server is an MCP server registry entry.
type Server struct {
	Schema      string    `json:"$schema,omitempty"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Version     string    `json:"version,omitempty"`
	Packages    []Package `json:"packages,omitempty"`
	Remotes     []Remote  `json:"remotes,omitempty"`
}
