// Command validate checks the game profile JSON files in a directory
// (../configs unless one is given). It checks:
//   - JSON structure, required fields and unknown keys
//   - Skip delay and pacing ranges accepted by the engine
//   - File names usable as profile IDs
//   - Profile names unique across the directory
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/wricardo/ludo-game/game/engine"
)

var profileIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

var requiredFields = []string{"name", "description", "skip_delay_seconds"}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Name   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single profile file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			result.fail("Missing required field: %s", field)
		}
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid profile: %v", err)
		return result
	}
	result.Name = config.Name

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", strings.TrimPrefix(err.Error(), "config validation: "))
	}

	id := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if !profileIDPattern.MatchString(id) {
		result.fail("File name %q is not a usable profile ID (lowercase letters, digits, _ and - only)", id)
	}

	if !result.Valid {
		return result
	}

	longest := config.AnimationDuration(engine.DiceFaces + 1)
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s (ID %s)", config.Name, id),
		fmt.Sprintf("✓ Skip delay: %ds", config.SkipDelaySeconds),
		fmt.Sprintf("✓ Manual dice: %v, auto-move: %v, auto-roll: %v", config.ManualDice, config.AutoMove, config.AutoRoll),
		fmt.Sprintf("✓ Roll reveal: %s, forfeit: %s", config.RollReveal(), config.ForfeitDelay()),
		fmt.Sprintf("✓ Longest move animation: %s", longest),
	)

	return result
}

// validateDirectory validates every *.json file in dir and flags profiles
// that share a display name
func validateDirectory(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	byName := make(map[string][]int)
	for _, file := range files {
		result := validateConfig(file)
		if result.Name != "" {
			key := strings.ToLower(result.Name)
			byName[key] = append(byName[key], len(results))
		}
		results = append(results, result)
	}

	for _, idxs := range byName {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs {
			var others []string
			for _, j := range idxs {
				if j != i {
					others = append(others, results[j].File)
				}
			}
			results[i].fail("Duplicate profile name %q (also in %s)", results[i].Name, strings.Join(others, ", "))
		}
	}

	return results, nil
}

// main validates ../configs (or the directory given as the first argument),
// printing a concise report and exiting with non-zero status if any file is
// invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	results, err := validateDirectory(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Printf("No profiles found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
