package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/m68ksim/mem"
	"github.com/sarchlab/m68ksim/srcmap"
)

// defaultMaxInstructions is the historical safety cap on total executed
// instructions, carried forward to keep a malformed program from looping
// forever under Run.
const defaultMaxInstructions = 5000

// StepResult reports the outcome of one Step.
type StepResult struct {
	// Exited is true once the program has halted, whether by RTS, an
	// unrecognized opcode, or the instruction safety cap.
	Exited bool

	// ExitCode is always 0 in this subset: RTS halts the simulation
	// rather than returning to a caller, so there is no process exit
	// status to report.
	ExitCode int64

	// Err is set when the halt was caused by an unknown opcode or the
	// safety cap, rather than a clean RTS.
	Err error
}

// Emulator fetches, decodes, and executes M68K instructions against a
// register file and memory image, emitting an optional per-instruction
// trace.
type Emulator struct {
	regs   *RegFile
	memory *mem.Memory
	ea     *EAEngine
	alu    *ALU
	branch *BranchUnit
	table  []opEntry

	sources *srcmap.Map
	stdout  io.Writer
	trace   bool

	instructionCount uint64
	maxInstructions  uint64
	halted           bool
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets the writer the trace and warnings print to.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stdout = w }
}

// WithTrace enables or disables the per-instruction trace. On by default.
func WithTrace(on bool) EmulatorOption {
	return func(e *Emulator) { e.trace = on }
}

// WithMaxInstructions overrides the instruction safety cap.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) { e.maxInstructions = max }
}

// WithSourceMap attaches the source map the trace consults to annotate
// each executed instruction with its originating line.
func WithSourceMap(m *srcmap.Map) EmulatorOption {
	return func(e *Emulator) { e.sources = m }
}

// NewEmulator constructs an Emulator over m, with registers at their
// documented reset state.
func NewEmulator(m *mem.Memory, opts ...EmulatorOption) *Emulator {
	regs := &RegFile{}
	regs.Reset()

	e := &Emulator{
		regs:            regs,
		memory:          m,
		sources:         srcmap.New(),
		stdout:          os.Stdout,
		trace:           true,
		maxInstructions: defaultMaxInstructions,
	}
	e.ea = NewEAEngine(regs, m)
	e.alu = NewALU(regs)
	e.branch = NewBranchUnit(regs)
	e.table = buildOpcodeTable()

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registers returns the emulator's register file.
func (e *Emulator) Registers() *RegFile {
	return e.regs
}

// Memory returns the emulator's memory image.
func (e *Emulator) Memory() *mem.Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed so far.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// SetPC sets the program counter, typically to the assembler's entry
// point before the first Step.
func (e *Emulator) SetPC(addr uint32) {
	e.regs.PC = addr
}

// Step fetches, decodes, and executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Exited: true}
	}
	if e.instructionCount >= e.maxInstructions {
		e.halted = true
		err := fmt.Errorf("instruction safety cap of %d reached", e.maxInstructions)
		_, _ = fmt.Fprintf(e.stdout, "WARN: %v\n", err)
		return StepResult{Exited: true, Err: err}
	}

	currentPC := e.regs.PC
	opcode := e.memory.ReadWord(e.regs.PC)
	e.regs.PC += 2

	var stepErr error
	if opcode == 0x4E75 {
		e.halted = true
	} else if !e.dispatch(opcode) {
		e.halted = true
		stepErr = fmt.Errorf("unknown opcode 0x%04X at PC=0x%08X", opcode, currentPC)
		_, _ = fmt.Fprintf(e.stdout, "WARN: %v\n", stepErr)
	}

	e.instructionCount++
	if e.trace {
		e.emitTrace(currentPC)
	}

	return StepResult{Exited: e.halted, Err: stepErr}
}

// dispatch scans the opcode-pattern table for the first matching entry
// and invokes its handler. It reports whether a match was found.
func (e *Emulator) dispatch(opcode uint16) bool {
	for _, entry := range e.table {
		if opcode&entry.mask == entry.value {
			entry.handler(e, opcode)
			return true
		}
	}
	return false
}

// emitTrace prints the line the spec's trace format describes: the
// source mapping for the instruction just executed (or a placeholder),
// followed by a full register dump.
func (e *Emulator) emitTrace(currentPC uint32) {
	if mapping, ok := e.sources.Lookup(currentPC); ok {
		_, _ = fmt.Fprintf(e.stdout, "L%-3d: %-20s | %s\n", mapping.Line, mapping.Text, e.regs.String())
	} else {
		_, _ = fmt.Fprintf(e.stdout, "??: (no source)           | %s\n", e.regs.String())
	}
}

// Run executes instructions until the program halts.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		if result.Exited {
			return result
		}
	}
}
