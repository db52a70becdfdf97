package summarize

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"simspect/internal/normalize"
	"simspect/internal/schema"
)

const promMetricPrefix = "simspect_"

var (
	promFilesParsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: promMetricPrefix + "files_parsed_total",
		Help: "Number of log files parsed into records in the last batch",
	})
	promFilesFailed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: promMetricPrefix + "files_failed_total",
		Help: "Number of log files that failed to parse in the last batch",
	})
	promIPC = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: promMetricPrefix + "ipc",
		Help: "ROI instructions per cycle",
	}, []string{"bench", "config"})
	promBranchMPKI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: promMetricPrefix + "branch_mpki",
		Help: "Branch mispredictions per thousand instructions",
	}, []string{"bench", "config"})
	promIPCNormalized = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: promMetricPrefix + "ipc_normalized",
		Help: "ROI IPC relative to the baseline config, geomean rows carry bench " + normalize.GeomeanBench,
	}, []string{"bench", "config"})
)

// publishMetrics sets the batch gauges from the finished batch. Null values
// are skipped, never exported as zero.
func publishMetrics(records []*schema.Record, normRows []normalize.Row, parsed int, failed int) {
	promFilesParsed.Set(float64(parsed))
	promFilesFailed.Set(float64(failed))
	for _, rec := range records {
		bench, _ := rec.Get("bench").AsString()
		config, _ := rec.Get("config").AsString()
		if ipc, ok := rec.Get("ipc").AsFloat(); ok {
			promIPC.WithLabelValues(bench, config).Set(ipc)
		}
		if mpki, ok := rec.Get("branch_mpki").AsFloat(); ok {
			promBranchMPKI.WithLabelValues(bench, config).Set(mpki)
		}
	}
	for _, row := range normRows {
		if ratio, ok := row.Ratio.AsFloat(); ok {
			promIPCNormalized.WithLabelValues(row.Bench, row.Config).Set(ratio)
		}
	}
}

func startPromServer(listenAddr string) {
	prometheus.MustRegister(promFilesParsed, promFilesFailed, promIPC, promBranchMPKI, promIPCNormalized)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("Starting Prometheus metrics server", slog.String("address", listenAddr))
	go func() {
		server := &http.Server{
			Addr:              listenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 3 * time.Second,
		}
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Prometheus HTTP server ListenAndServe error", slog.String("error", err.Error()))
		}
	}()
}

// waitForInterrupt blocks until SIGINT or SIGTERM so the metrics endpoint
// stays up after the reports are written.
func waitForInterrupt(listenAddr string) {
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChannel)
	fmt.Printf("Serving Prometheus metrics at %s/metrics. Press Ctrl+C to exit.\n", listenAddr)
	sig := <-sigChannel
	fmt.Println()
	slog.Info("received signal", slog.String("signal", sig.String()))
}
