package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alanwang67/todo_services/config"
	rpcclient "github.com/alanwang67/todo_services/rpc/client"
	"github.com/alanwang67/todo_services/rpc/protocol"
	rpcserver "github.com/alanwang67/todo_services/rpc/server"
	restclient "github.com/alanwang67/todo_services/rest/client"
	restserver "github.com/alanwang67/todo_services/rest/server"
	"github.com/alanwang67/todo_services/storage"
	"github.com/alanwang67/todo_services/workload"
	"github.com/charmbracelet/log"
)

func main() {
	log.SetLevel(log.DebugLevel)

	if len(os.Args) < 2 {
		log.Fatalf("usage: %s [rpc-server|rpc-client|rest-server|bench] [-config path]", os.Args[0])
	}

	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	configPath := fs.String("config", "config.json", "path to the JSON config file")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("can't load config: %s", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, keeping debug", cfg.LogLevel)
	}

	conn := &protocol.Connection{
		Network: cfg.RPC.Network,
		Address: cfg.RPC.Address,
	}

	switch os.Args[1] {
	case "rpc-server":
		runRPCServer(&protocol.Connection{Network: cfg.RPC.Network, Address: cfg.RPC.Listen})
	case "rpc-client":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := rpcclient.New(1, conn).Start(ctx, os.Stdout); err != nil {
			log.Fatalf("client failed: %s", err)
		}
	case "rest-server":
		runRESTServer(cfg.REST.Address)
	case "bench":
		if err := runBench(cfg, conn); err != nil {
			log.Fatalf("bench failed: %s", err)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runRPCServer(conn *protocol.Connection) {
	srv := rpcserver.New(0, conn, storage.New())

	go func() {
		waitForSignal()
		srv.Close()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("rpc server encountered an error: %v", err)
	}
}

func runRESTServer(addr string) {
	srv := restserver.New(storage.New())

	go func() {
		waitForSignal()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("rest server shutdown: %v", err)
		}
	}()

	if err := srv.Start(addr); err != nil {
		log.Fatalf("rest server encountered an error: %v", err)
	}
}

func runBench(cfg config.Config, conn *protocol.Connection) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(cfg.ResultsDir, os.ModePerm); err != nil {
		return err
	}

	rc, err := restclient.New(cfg.RESTBaseURL())
	if err != nil {
		return err
	}

	instructions := cfg.Workload.Generate()
	executors := []struct {
		name string
		exec workload.Executor
	}{
		{"rpc", workload.RPCExecutor{Client: rpcclient.New(1, conn)}},
		{"rest", workload.RESTExecutor{Client: rc}},
	}

	results := make([]workload.Result, 0, len(executors))
	for _, e := range executors {
		res, err := workload.Run(ctx, e.name, e.exec, instructions)
		if err != nil {
			return err
		}
		results = append(results, res)

		if err := workload.SaveCSV(res,
			filepath.Join(cfg.ResultsDir, e.name+"_latency.csv"),
			filepath.Join(cfg.ResultsDir, e.name+"_throughput.csv")); err != nil {
			return err
		}
	}

	if err := workload.SaveJSON(results, filepath.Join(cfg.ResultsDir, "metrics.json")); err != nil {
		return err
	}
	return workload.PlotLatency(results, filepath.Join(cfg.ResultsDir, "latency.png"))
}

func waitForSignal() {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-exit
	log.Infof("signal caught: %s", sig)
}
