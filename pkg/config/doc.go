// Package config loads typed configuration from environment variables, with
// optional .env files, using github.com/caarlos0/env/v11 struct tags and
// github.com/joho/godotenv.
//
// Each configuration type is parsed once and cached; ForceReload and
// ResetCache exist for tests.
//
//	var node config.Node
//	config.MustLoad(&node)
//	if err := node.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// Node describes an otpmirror process. Adapter packages keep their own
// env-tagged structs, such as redis.Config and httpserver.Config, which are
// loaded the same way.
package config
