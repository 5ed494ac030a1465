package workload

import (
	"fmt"
	"math/rand"
	"time"
)

// InstructionType constants define the types of operations.
const (
	InstructionTypeCreate = "create"
	InstructionTypeList   = "list"
)

// Instruction represents a single operation in the workload.
type Instruction struct {
	Type  string        `json:"type"`            // "create" or "list"
	Title string        `json:"title,omitempty"` // Title to create (only used for create operations)
	Delay time.Duration `json:"delay,omitempty"` // Optional delay after executing the instruction
}

// Generator generates workloads based on specified parameters.
type Generator struct {
	CreatePercentage float64       `json:"create_percentage"` // Share of create operations (e.g., 0.2 for 20% creates)
	OperationCount   int           `json:"operation_count"`   // Total number of operations to generate
	InstructionDelay time.Duration `json:"instruction_delay"` // Optional delay between instructions
	Seed             int64         `json:"seed"`              // Zero picks a time based seed
}

// NewGenerator creates a new Generator with default parameters.
func NewGenerator() *Generator {
	return &Generator{
		CreatePercentage: 0.2, // Default to 80% lists
		OperationCount:   200,
		InstructionDelay: 0,
	}
}

// Generate creates a workload based on the generator's parameters.
func (g *Generator) Generate() []Instruction {
	seed := g.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	count := max(g.OperationCount, 0)

	instructions := make([]Instruction, 0, count)
	for i := 0; i < count; i++ {
		instr := Instruction{Type: InstructionTypeList, Delay: g.InstructionDelay}
		if r.Float64() < g.CreatePercentage {
			instr.Type = InstructionTypeCreate
			instr.Title = fmt.Sprintf("todo %d", i+1)
		}
		instructions = append(instructions, instr)
	}

	return instructions
}
