// Package cli provides the interactive REPL for bitkv. It parses
// commands from stdin and executes them against any engine.Engine
// implementation, independent of which storage engine backs it.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rohanchhabra/bitkv/internal/engine"
	"go.uber.org/zap"
)

// Handler manages the command-line interface for bitkv.
type Handler struct {
	engine  engine.Engine
	scanner *bufio.Scanner
	log     *zap.SugaredLogger
}

// NewHandler creates a new CLI handler wrapping e, logging through log.
func NewHandler(e engine.Engine, log *zap.SugaredLogger) *Handler {
	return &Handler{
		engine:  e,
		scanner: bufio.NewScanner(os.Stdin),
		log:     log,
	}
}

// Run starts the interactive command loop, processing input until an
// EXIT/QUIT command is received, stdin closes, or a read error occurs.
func (h *Handler) Run() error {
	fmt.Println("bitkv - single-file Bitcask key/value store")
	fmt.Println("Commands: PUT <key> <value>, GET <key>, DELETE <key>, SCAN [start], SCAN_PREFIX <prefix>, STATUS, COMPACT, EXIT")
	fmt.Print("> ")

	for h.scanner.Scan() {
		line := strings.TrimSpace(h.scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}

		parts := strings.Fields(line)
		command := strings.ToUpper(parts[0])

		switch command {
		case "PUT":
			h.handlePut(parts)
		case "GET":
			h.handleGet(parts)
		case "DELETE":
			h.handleDelete(parts)
		case "SCAN":
			h.handleScan(parts)
		case "SCAN_PREFIX":
			h.handleScanPrefix(parts)
		case "STATUS":
			h.handleStatus()
		case "COMPACT":
			h.handleCompact()
		case "EXIT", "QUIT":
			h.log.Info("cli: shutdown requested by user")
			fmt.Println("Goodbye!")
			return nil
		default:
			h.log.Warnw("cli: unknown command received", "command", command)
			fmt.Printf("Unknown command: %s\n", command)
		}

		fmt.Print("> ")
	}

	if err := h.scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func (h *Handler) handlePut(parts []string) {
	if len(parts) < 3 {
		fmt.Println("Usage: PUT <key> <value>")
		return
	}
	key, value := parts[1], strings.Join(parts[2:], " ")

	if err := h.engine.Set([]byte(key), []byte(value)); err != nil {
		h.log.Errorw("cli: PUT failed", "key", key, "error", err)
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK")
}

func (h *Handler) handleGet(parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: GET <key>")
		return
	}
	key := parts[1]

	value, ok, err := h.engine.Get([]byte(key))
	if err != nil {
		h.log.Errorw("cli: GET failed", "key", key, "error", err)
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !ok {
		fmt.Println("(not found)")
		return
	}
	fmt.Printf("%s\n", value)
}

func (h *Handler) handleDelete(parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: DELETE <key>")
		return
	}
	key := parts[1]

	if err := h.engine.Delete([]byte(key)); err != nil {
		h.log.Errorw("cli: DELETE failed", "key", key, "error", err)
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK")
}

func (h *Handler) handleScan(parts []string) {
	r := engine.RangeAll()
	if len(parts) >= 2 {
		r = engine.RangeFrom([]byte(parts[1]))
	}
	h.printScan(h.engine.Scan(r))
}

func (h *Handler) handleScanPrefix(parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: SCAN_PREFIX <prefix>")
		return
	}
	h.printScan(h.engine.ScanPrefix([]byte(parts[1])))
}

func (h *Handler) printScan(it engine.ScanIterator) {
	for {
		pair, ok, err := it.Next()
		if err != nil {
			h.log.Errorw("cli: scan failed", "error", err)
			fmt.Printf("Error: %v\n", err)
			return
		}
		if !ok {
			return
		}
		fmt.Printf("%s = %s\n", pair.Key, pair.Value)
	}
}

func (h *Handler) handleStatus() {
	st, err := h.engine.Status()
	if err != nil {
		h.log.Errorw("cli: status failed", "error", err)
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("name=%s key_count=%d size=%d total_disk_size=%d live_disk_size=%d garbage_disk_size=%d\n",
		st.Name, st.KeyCount, st.Size, st.TotalDiskSize, st.LiveDiskSize, st.GarbageDiskSize)
}

func (h *Handler) handleCompact() {
	type compactor interface{ Compact() error }
	c, ok := h.engine.(compactor)
	if !ok {
		fmt.Println("COMPACT is not supported by this engine")
		return
	}
	if err := c.Compact(); err != nil {
		h.log.Errorw("cli: compact failed", "error", err)
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK")
}

