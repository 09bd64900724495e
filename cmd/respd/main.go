// Command respd runs the RESP data server: the TCP listener, the
// snapshot manager, and the admin/observability HTTP server, wired
// together and shut down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/google/gops/agent"

	"github.com/ccresp/respd/internal/admin"
	"github.com/ccresp/respd/internal/mirror"
	"github.com/ccresp/respd/internal/respconfig"
	"github.com/ccresp/respd/internal/server"
	"github.com/ccresp/respd/internal/snapshot"
)

func main() {
	cfg := respconfig.Load(os.Args[1:])
	cclog.Init(cfg.LogLevel, cfg.LogLevel == "debug")

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			cclog.Fatalf("respd: gops/agent.Listen failed: %s", err.Error())
		}
	}

	if !cfg.NoGraphic {
		printBanner(cfg.Port, cfg.AdminAddr)
	}

	snapMgr := snapshot.NewManager(cfg.DumpFile, cfg.OpsUntilSave, cfg.MemoryOnly)
	ss := snapMgr.Load()

	s3Mirror, err := mirror.NewS3Mirror(cfg.S3)
	if err != nil {
		cclog.Fatalf("respd: %s", err.Error())
	}
	natsMirror, err := mirror.NewNATSMirror(cfg.NATS)
	if err != nil {
		cclog.Fatalf("respd: %s", err.Error())
	}

	metrics := admin.NewMetrics(func() float64 { return float64(ss.CommandsRanSinceSave()) })

	snapMgr.OnSaved = func(dur time.Duration, err error) {
		metrics.ObserveSnapshot(dur.Seconds(), err)
		if err != nil {
			return
		}
		s3Mirror.UploadAsync(cfg.DumpFile)
		natsMirror.PublishSnapshotCompletedAsync(len(ss.Indices()), int64(ss.CommandsRanSinceSave()), dur.Milliseconds())
	}

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.SaveInterval != "" {
		interval, err := time.ParseDuration(cfg.SaveInterval)
		if err != nil {
			cclog.Fatalf("respd: invalid --save-interval %q: %s", cfg.SaveInterval, err.Error())
		}
		if err := snapMgr.StartPeriodic(ctx, ss, interval); err != nil {
			cclog.Fatalf("respd: starting periodic snapshot: %s", err.Error())
		}
	}

	srv := server.New(fmt.Sprintf(":%d", cfg.Port), ss, snapMgr)
	srv.Metrics = metrics

	adminSrv := admin.New(cfg.AdminAddr, ss, metrics)
	adminSrv.MarkReady()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(ctx); err != nil {
			cclog.Fatalf("respd: %s", err.Error())
		}
	}()

	if cfg.AdminAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := adminSrv.ListenAndServe(); err != nil {
				cclog.Errorf("respd: admin server: %s", err.Error())
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	cclog.Info("respd: shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		cclog.Errorf("respd: admin server shutdown: %s", err.Error())
	}
	shutdownCancel()
	wg.Wait()

	if !cfg.MemoryOnly {
		if err := snapMgr.Save(ss); err != nil {
			cclog.Errorf("respd: final snapshot failed: %s", err.Error())
		}
	}

	cclog.Info("respd: shutdown complete")
}
