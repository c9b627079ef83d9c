/*
Package monitoring provides Prometheus-based metrics collection.

# Overview

Tracks HTTP requests against the API, shell pipeline execution, key-value
store operations, session lifecycle, and WebSocket connections.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	metrics.RecordLine("ok", duration)

# Metrics Endpoint

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
