// Package config loads the resolver's run configuration.
//
// Configuration comes from an optional YAML file with ${VAR} environment
// expansion, overlaid by command-line flags. Catalog credentials left empty
// fall back to CMC_API_KEY, FOUNDICO_PUBLIC_KEY and FOUNDICO_PRIVATE_KEY.
package config
