package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"justact/internal/logging"
	"justact/pkg/datalog"
)

var evalWatch bool

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate a Datalog file to its well-founded model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := evalFile(path); err != nil {
			if !evalWatch {
				return err
			}
			fmt.Fprintf(os.Stderr, "justact: %v\n", err)
		}
		if !evalWatch {
			return nil
		}
		return watchFile(path)
	},
}

func init() {
	evalCmd.Flags().BoolVar(&evalWatch, "watch", false, "re-evaluate whenever the file changes")
}

func evalFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	spec, err := datalog.Parse(path, string(src))
	if err != nil {
		return err
	}
	model, err := spec.AlternatingFixpoint()
	if err != nil {
		return err
	}
	fmt.Println(model)
	return nil
}

// watchFile re-evaluates the file on every write, debounced so editors that
// write in bursts trigger a single evaluation. Returns on interrupt.
func watchFile(path string) error {
	log := logging.L(logging.CategoryWatch)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: many editors replace the file on save, which
	// drops a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	const debounce = 200 * time.Millisecond
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("file changed", zap.String("path", path), zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := evalFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "justact: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-interrupt:
			return nil
		}
	}
}
