// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"visa-pathway-workers/pkg/registry"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("a command is required")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		path := fs.String("path", "", "Registry file (embedded registry when empty)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		reg, err := registry.Load(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		return listActivities(reg, out)

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", "", "Registry file (embedded registry when empty)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		reg, err := registry.Load(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil

	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		path := fs.String("path", "", "Registry file (embedded registry when empty)")
		dest := fs.String("out", "", "Destination file (stdout when empty)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		reg, err := registry.Load(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if *dest == "" {
			return writeRegistry(reg, out)
		}
		if err := saveRegistry(reg, *dest); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d activities to %s\n", len(reg.Activities), *dest)
		return nil

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		path := fs.String("path", "configs/activity-registry.json", "Registry file to edit")
		id := fs.String("id", "", "Activity ID to update")
		field := fs.String("field", "", "Field to update (status, version, timeout, retries, ...)")
		value := fs.String("value", "", "New value for the field")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" || *field == "" || *value == "" {
			return fmt.Errorf("id, field, and value are required for update")
		}
		if err := updateActivity(*path, *id, *field, *value, time.Now); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *id, *field, *value)
		return nil

	case "help":
		help(out)
		return nil

	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func listActivities(reg *registry.ActivityRegistry, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tCATEGORY\tSTATUS\tTIMEOUT\tRETRIES\tERROR CODES")
	for _, taskType := range reg.TaskTypes() {
		a, _ := reg.Find(taskType)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			a.TaskType, a.Category, a.ImplementationStatus, a.Timeout, a.Retries, strings.Join(a.ErrorCodes, ","))
	}
	return tw.Flush()
}

func updateActivity(path, id, field, value string, now func() time.Time) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a := findByID(reg, id)
	if a == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("update leaves registry invalid: %w", err)
	}
	reg.LastUpdated = now().UTC().Format(time.RFC3339)
	return saveRegistry(reg, path)
}

func findByID(reg *registry.ActivityRegistry, id string) *registry.Activity {
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			return &reg.Activities[i]
		}
	}
	return nil
}

func writeRegistry(reg *registry.ActivityRegistry, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reg); err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	return nil
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: registry-updater <command> [flags]

Commands:
  list      List every activity with its retry policy and error codes
  validate  Check required fields, unique task types and input schemas
  export    Write the registry as JSON (embedded registry unless -path is set)
  update    Update an existing activity's field in a registry file
  help      Show this help message

Examples:
  registry-updater list
  registry-updater validate -path configs/activity-registry.json
  registry-updater export -out configs/activity-registry.json
  registry-updater update -path configs/activity-registry.json -id recommend-visa-path -field timeout -value 15s
`)
}
