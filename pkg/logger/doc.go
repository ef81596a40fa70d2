// Package logger builds *slog.Logger instances from functional options and
// provides attribute helpers so key names stay consistent across packages.
//
// Every logger created by New redacts the values of attributes named
// "secret", "secret_material" or "secretMaterial" (any case), including
// inside groups, so OTP secrets cannot reach log output even by accident.
//
//	log := logger.New(
//		logger.WithEnvironment(logger.ParseEnvironment(cfg.Env), "otpmirror"),
//		logger.WithLevelName(cfg.LogLevel),
//		logger.WithAttr(logger.Role("primary")),
//	)
//	log.Info("credential imported", logger.CredentialID(id), logger.Kind(kind))
//
// Library types accept a *slog.Logger and fall back to Nop when given nil.
package logger
