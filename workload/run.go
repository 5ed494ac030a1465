package workload

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	rpcclient "github.com/alanwang67/todo_services/rpc/client"
	restclient "github.com/alanwang67/todo_services/rest/client"
	"github.com/charmbracelet/log"
)

// Executor is a service the workload can be replayed against.
type Executor interface {
	Create(ctx context.Context, title string) error
	List(ctx context.Context) (int, error)
}

// Metric represents a single performance metric
type Metric struct {
	OperationIndex int     `json:"operation_index"`
	OperationType  string  `json:"operation_type"`
	Latency        float64 `json:"latency"`   // In seconds
	Timestamp      float64 `json:"timestamp"` // Time since start in seconds
}

// Result holds the metrics of one workload run against one service.
type Result struct {
	Name    string   `json:"name"`
	Metrics []Metric `json:"metrics"`
	Failed  int      `json:"failed"`
}

// Run replays instructions against exec. Failed operations are logged and
// counted but produce no metric.
func Run(ctx context.Context, name string, exec Executor, instructions []Instruction) (Result, error) {
	log.Debugf("starting %s workload with %d instructions", name, len(instructions))

	res := Result{Name: name, Metrics: make([]Metric, 0, len(instructions))}
	start := time.Now()

	for i, instr := range instructions {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		opStart := time.Now()
		var err error
		switch instr.Type {
		case InstructionTypeCreate:
			err = exec.Create(ctx, instr.Title)
		case InstructionTypeList:
			_, err = exec.List(ctx)
		default:
			log.Warnf("%s: unknown instruction type: %s", name, instr.Type)
			continue
		}
		if err != nil {
			log.Errorf("%s: operation %d (%s) failed: %v", name, i+1, instr.Type, err)
			res.Failed++
			continue
		}

		res.Metrics = append(res.Metrics, Metric{
			OperationIndex: i + 1,
			OperationType:  instr.Type,
			Latency:        time.Since(opStart).Seconds(),
			Timestamp:      time.Since(start).Seconds(),
		})

		if instr.Delay > 0 {
			time.Sleep(instr.Delay)
		}
	}

	log.Infof("%s completed workload. Ops: %d, Failed: %d, Avg Latency: %v",
		name, len(res.Metrics), res.Failed, res.AverageLatency())
	return res, nil
}

func (r Result) AverageLatency() time.Duration {
	if len(r.Metrics) == 0 {
		return 0
	}
	var total float64
	for _, m := range r.Metrics {
		total += m.Latency
	}
	return time.Duration(total / float64(len(r.Metrics)) * float64(time.Second))
}

// RPCExecutor replays a workload over net/rpc.
type RPCExecutor struct {
	Client *rpcclient.Client
}

func (e RPCExecutor) Create(ctx context.Context, title string) error {
	_, err := e.Client.CreateTodo(ctx, title, false)
	return err
}

func (e RPCExecutor) List(ctx context.Context) (int, error) {
	list, err := e.Client.GetTodos(ctx)
	return len(list.Todos), err
}

// RESTExecutor replays a workload over HTTP.
type RESTExecutor struct {
	Client *restclient.Client
}

func (e RESTExecutor) Create(ctx context.Context, title string) error {
	_, err := e.Client.Create(ctx, title, false)
	return err
}

func (e RESTExecutor) List(ctx context.Context) (int, error) {
	todos, err := e.Client.List(ctx)
	return len(todos), err
}

func SaveJSON(results []Result, filename string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize metrics: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	log.Infof("Metrics saved to %s", filename)
	return nil
}

// SaveCSV writes one latency file and one throughput file for a single result.
func SaveCSV(res Result, latencyFile, throughputFile string) error {
	latency := [][]string{{"OperationIndex", "OperationType", "Latency"}}
	throughput := [][]string{{"Timestamp", "Throughput"}}
	for n, m := range res.Metrics {
		latency = append(latency, []string{
			strconv.Itoa(m.OperationIndex),
			m.OperationType,
			strconv.FormatFloat(m.Latency, 'f', 6, 64),
		})
		if m.Timestamp > 0 {
			throughput = append(throughput, []string{
				strconv.FormatFloat(m.Timestamp, 'f', 6, 64),
				strconv.FormatFloat(float64(n+1)/m.Timestamp, 'f', 6, 64),
			})
		}
	}

	if err := writeCSV(latencyFile, latency); err != nil {
		return err
	}
	if err := writeCSV(throughputFile, throughput); err != nil {
		return err
	}

	log.Infof("Latency data saved to %s", latencyFile)
	log.Infof("Throughput data saved to %s", throughputFile)
	return nil
}

func writeCSV(filename string, records [][]string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filename, err)
	}
	return nil
}
