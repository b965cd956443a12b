package testtool

import (
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux

	"overlay_editor_service/pkg/config"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// StartPprof pprof server on addr, local env only
//
//	go tool pprof http://localhost:6060/debug/pprof/profile?seconds=30
//	go tool pprof http://localhost:6060/debug/pprof/heap
func StartPprof(addr string) {
	if !config.IsLocal() {
		logger.Log.Info("pprof is disabled outside local env")
		return
	}

	go func() {
		logger.Log.Info("starting pprof server", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Log.Warn("pprof server failed", zap.Error(err))
		}
	}()
}
