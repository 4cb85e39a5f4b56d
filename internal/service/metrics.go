package service

import "github.com/prometheus/client_golang/prometheus"

var importRows = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "artist_import_rows_total", Help: "Rows processed by CSV artist imports"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(importRows) }
