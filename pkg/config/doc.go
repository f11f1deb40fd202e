// Package config loads the subdomains configuration.
//
// Settings come from SUBDOMAINS_-prefixed environment variables (a .env file
// is loaded first with github.com/joho/godotenv and parsed with
// github.com/caarlos0/env/v11), optionally completed by a YAML mapping file:
//
//	SUBDOMAINS_PARENT_DOMAIN=example.com
//	SUBDOMAINS_DEFAULT_TABLE=marketing
//	SUBDOMAINS_TABLE_MAPPING=@=marketing,www=marketing,api=api
//	SUBDOMAINS_MAPPING_FILE=subdomains.yaml
//
// Values set in the mapping file win over the environment, so editing the
// file is enough to change the mapping of a running server that reloads it.
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	mapping, err := cfg.Mapping()
package config
