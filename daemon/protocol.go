package daemon

import (
	"os"
	"strconv"
	"strings"

	"github.com/columbia/loom/filter"
)

// process implements §6.1's ProcessMessage / §6's command table: it
// parses one line from the controller, applies it to registry, and
// returns the exact response line to send back. The response is always
// non-empty, per spec.
func process(registry *filter.Registry, line string) string {
	fields := strings.Split(line, " ")
	if len(fields) == 0 || fields[0] == "" {
		return "no command specified"
	}

	switch fields[0] {
	case "add":
		return processAdd(registry, fields[1:])
	case "del":
		return processDel(registry, fields[1:])
	default:
		return "unknown command"
	}
}

func processAdd(registry *filter.Registry, args []string) string {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return "wrong format. expect: add <filter ID> <file name>"
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return "wrong format. expect: add <filter ID> <file name>"
	}
	contents, err := os.ReadFile(args[1])
	if err != nil {
		return "failed to add the filter"
	}
	if err := registry.Install(id, contents); err != nil {
		return "failed to add the filter"
	}
	return "filter " + strconv.Itoa(id) + " is successfully added"
}

func processDel(registry *filter.Registry, args []string) string {
	if len(args) < 1 || args[0] == "" {
		return "wrong format. expect: del <filter ID>"
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return "wrong format. expect: del <filter ID>"
	}
	if err := registry.Uninstall(id); err != nil {
		return "failed to delete the filter"
	}
	return "filter " + strconv.Itoa(id) + " is successfully deleted"
}
