// Package logger builds configured slog.Logger instances with context-aware
// attribute injection.
//
// The factory produces JSON output for production and text output for
// development. A handler decorator extracts request-scoped attributes
// (resolved tenant, user id) from context on every log call, so call sites
// never repeat that plumbing.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "saasbase"),
//		logger.WithContextExtractors(tenant.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
package logger
