package monitor_test

import (
	"context"
	"fmt"
	"os"

	"github.com/Schera-ole/monitor/internal/channel"
	"github.com/Schera-ole/monitor/internal/dispatch"
	models "github.com/Schera-ole/monitor/internal/model"
	"github.com/Schera-ole/monitor/internal/registry"
	"github.com/Schera-ole/monitor/internal/repository"
	"github.com/Schera-ole/monitor/internal/service"
)

func exampleRegistry() *registry.Registry {
	reg, err := registry.New(
		registry.Descriptor{Name: "cpu", Update: func() { fmt.Println("cpu updated") }},
		registry.Descriptor{Name: "memory", Update: func() { fmt.Println("memory updated") }},
	)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	return reg
}

// Example of decoding a control channel payload
func Example_parseCommand() {
	cmd := channel.ParseCommand(channel.ParseMetrics(" cpu, memory ,,disk", 10))
	fmt.Println(cmd.List, cmd.Metrics)

	cmd = channel.ParseCommand(channel.ParseMetrics("1", 10))
	fmt.Println(cmd.List)
	// Output:
	// false [cpu memory disk]
	// true
}

// Example of resolving a selection and running one cycle by hand
func Example_dispatch() {
	reg := exampleRegistry()
	reg.Show(os.Stdout)

	table, err := dispatch.Resolve([]string{"memory", "cpu"}, reg)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, entry := range table {
		entry.Update()
	}

	_, err = dispatch.Resolve([]string{"cpu", "disk"}, reg)
	fmt.Println(err)
	// Output:
	// Available metrics:
	//   - cpu
	//   - memory
	// memory updated
	// cpu updated
	// no update function found for metric 'disk'
}

// Example of storing and reading samples through the service layer
func Example_metricsService() {
	metricService := service.NewMetricsService(repository.NewMemStorage())
	ctx := context.Background()

	err := metricService.SetMetrics(ctx, []models.Metric{
		{Name: "cpu_usage_percent", Type: models.Gauge, Value: 12.5},
		{Name: "context_switches_total", Type: models.Counter, Value: int64(1024)},
	})
	if err != nil {
		fmt.Printf("Error storing samples: %v\n", err)
		return
	}

	samples, err := metricService.ListMetrics(ctx)
	if err != nil {
		fmt.Printf("Error listing samples: %v\n", err)
		return
	}
	for _, s := range samples {
		fmt.Printf("%s (%s): %v\n", s.Name, s.Type, s.Value)
	}
	// Output:
	// context_switches_total (counter): 1024
	// cpu_usage_percent (gauge): 12.5
}
