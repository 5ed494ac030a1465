package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alanwang67/todo_services/workload"
)

// Config structure for loading config.json
type Config struct {
	RPC        rpcConfig          `json:"rpc"`
	REST       restConfig         `json:"rest"`
	Workload   workload.Generator `json:"workload"`
	LogLevel   string             `json:"log_level"`
	ResultsDir string             `json:"results_dir"`
}

type rpcConfig struct {
	Network string `json:"network"`
	Address string `json:"address"` // dialed by clients
	Listen  string `json:"listen"`  // bound by the server, all interfaces by default
}

type restConfig struct {
	Address string `json:"address"`
}

func Default() Config {
	return Config{
		RPC:        rpcConfig{Network: "tcp", Address: "localhost:50051", Listen: ":50051"},
		REST:       restConfig{Address: "localhost:8000"},
		Workload:   *workload.NewGenerator(),
		LogLevel:   "debug",
		ResultsDir: "results",
	}
}

// Load reads path over the defaults. A missing file leaves the defaults untouched.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("can't unmarshal %s: %w", path, err)
	}
	if config.Workload.OperationCount < 0 {
		return config, fmt.Errorf("%s: operation_count must not be negative, got %d", path, config.Workload.OperationCount)
	}
	return config, nil
}

// RESTBaseURL is the URL clients use to reach the REST server.
func (c Config) RESTBaseURL() string {
	return "http://" + c.REST.Address
}
