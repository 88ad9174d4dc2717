package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/milk9111/spacewar/prefabs"
	"github.com/milk9111/spacewar/rollback"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type options struct {
	session  string
	scenario string
	frames   int
	check    int
	seed     int64
	every    int
}

func main() {
	var opts options
	flag.StringVar(&opts.session, "session", "session.yaml", "session spec in prefabs/ (embedded copy used when missing on disk)")
	flag.StringVar(&opts.scenario, "scenario", "", "scenario spec overriding the session's")
	flag.IntVar(&opts.frames, "frames", 0, "frames to run (0 uses the session's, negative runs until interrupted)")
	flag.IntVar(&opts.check, "check", 0, "rollback check distance (0 uses the session's)")
	flag.Int64Var(&opts.seed, "seed", 0, "input seed (0 uses the session's)")
	flag.IntVar(&opts.every, "every", 60, "log the checksum every N frames")
	watch := flag.Bool("watch", false, "rerun when a spec or script under prefabs/ changes")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9100")
	dir := flag.String("dir", prefabs.Dir, "directory searched for on-disk prefabs")
	flag.Parse()

	prefabs.Dir = *dir
	metrics := rollback.NewMetrics()
	if *metricsAddr != "" {
		go func() {
			log.Printf("synctest: metrics on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})); err != nil {
				log.Printf("synctest: metrics server: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var (
		changes <-chan prefabs.Change
		watcher *prefabs.Watcher
	)
	// os.Exit skips deferred calls
	exit := func(code int) {
		if watcher != nil {
			_ = watcher.Close()
		}
		os.Exit(code)
	}
	if *watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Fatalf("synctest: watch %s: %v", prefabs.Dir, err)
		}
		watcher = w
		defer w.Close()
		changes = w.Events
		go func() {
			for err := range w.Errors {
				log.Printf("synctest: watch: %v", err)
			}
		}()
	}

	for {
		r, err := newRun(opts, metrics)
		if err != nil {
			if !*watch {
				log.Printf("synctest: %v", err)
				exit(1)
			}
			log.Printf("synctest: %v; waiting for a fix", err)
		} else {
			err = r.loop(stop, changes)
			var mismatch *rollback.MismatchError
			switch {
			case errors.As(err, &mismatch):
				log.Printf("synctest: FAILED %v", mismatch)
				if !*watch {
					exit(1)
				}
			case errors.Is(err, errInterrupted):
				return
			case errors.Is(err, errReload):
				continue
			case err != nil:
				log.Printf("synctest: %v", err)
				exit(1)
			default:
				log.Printf("synctest: ok after %d frames, checksum %016x", r.session.Frame(), r.session.Checksum())
				if !*watch {
					return
				}
			}
		}

		select {
		case c, ok := <-changes:
			if !ok {
				return
			}
			log.Printf("synctest: %s changed, rerunning", c.Path)
		case <-stop:
			return
		}
	}
}
