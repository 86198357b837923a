package common

import (
	"github.com/futig/prompt-enhancer/internal/config"
	pkgHTTP "github.com/futig/prompt-enhancer/pkg/http"
)

// NewBaseConnector builds the shared outbound connector for cfg: timeouts,
// debug request logging and bearer authentication when a token is set.
func NewBaseConnector(cfg config.HTTPClientConfig) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}
