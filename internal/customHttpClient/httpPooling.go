package customHttpClient

import (
	"net/http"

	"github.com/rvaldezc/muniRAG/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{
	Transport: customTransport,
}

// Pooled returns the shared connection-pooled client for outbound REST calls.
func Pooled() *http.Client {
	return pooledClient
}
