// Package server provides the HTTP server for the toolhub API.
//
// The layering is CLI -> App -> Server -> Router -> Handlers:
//
//	cfg := server.DefaultConfig()
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    return err
//	}
//	srv.Start()
//	httpSrv := srv.HTTPServer()
//	go httpSrv.ListenAndServe()
package server

//go:generate swag init --generalInfo docs.go --dir .,./handlers --output ./openapi --outputTypes json,yaml
