// Package server runs the authd HTTP API on Gin, served over HTTP/1.1 and
// HTTP/2 cleartext.
//
// Middleware lives in server/middleware (Auth, RequireRole, RequestID,
// Recovery, RequestLogger, BodySizeLimit, Metrics), operational handlers in
// server/endpoint (/alive, /version) and the token routes in server/authapi.
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyMiddleware(httpMetrics)
//	srv.RegisterDefaultEndpoints(cfg.Name)
//	authapi.NewHandler(authority, log).Register(srv.Engine(), middleware.Auth(...))
//	_ = srv.Start(ctx)
package server
