package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/wallprefs/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// keysAnnotation lists, comma separated, the schema IDs whose keys a
// command accepts.
const keysAnnotation = "wallprefs.keys"

const maxWidth = 72
const minWidth = 40

// getTerminalWidth returns the terminal width capped at maxWidth.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to the specified width, preserving existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}
		var line string
		for _, word := range strings.Fields(paragraph) {
			if line == "" {
				line = word
			} else if len(line)+1+len(word) <= width {
				line += " " + word
			} else {
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies consistent styling to a command's help output.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help and usage to a command and all its subcommands.
// Call this after all subcommands have been added, before Execute().
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// AcceptsKeys marks cmd as taking a settings key of the given schemas. Its
// help lists every key with its type and legal values, and a command whose
// usage names a VALUE gets examples derived from those keys.
func AcceptsKeys(cmd *cobra.Command, schemas ...*schema.Schema) *cobra.Command {
	ids := make([]string, len(schemas))
	for i, s := range schemas {
		ids[i] = s.ID()
	}
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[keysAnnotation] = strings.Join(ids, ",")
	return cmd
}

func acceptedSchemas(cmd *cobra.Command) []*schema.Schema {
	var out []*schema.Schema
	for _, id := range strings.Split(cmd.Annotations[keysAnnotation], ",") {
		if s, ok := schema.ByID(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// parseDescription splits a command's long description into main text and examples.
func parseDescription(long string) (description string, examples string) {
	if idx := strings.Index(long, "\nExamples:\n"); idx != -1 {
		return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len("\nExamples:\n"):])
	}
	return long, ""
}

// renderExamples styles example lines with muted comments and styled commands.
func renderExamples(w io.Writer, t *Theme, examples string, cmdPath string) {
	rootCmd := strings.Split(cmdPath, " ")[0]
	for _, line := range strings.Split(examples, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			fmt.Fprintln(w)
		case strings.HasPrefix(trimmed, "#"):
			fmt.Fprintln(w, " "+t.Muted.Render(trimmed))
		default:
			fmt.Fprintln(w, " "+styleCommandLine(trimmed, rootCmd, t))
		}
	}
}

// styleCommandLine colours the root command, subcommand and flags of an example.
func styleCommandLine(line, rootCmd string, t *Theme) string {
	sub := lipgloss.NewStyle().Foreground(colorCyan)
	parts := strings.Fields(line)
	for i, part := range parts {
		switch {
		case i == 0 && part == rootCmd:
			parts[i] = t.Command.Render(part)
		case i == 1 && !strings.HasPrefix(part, "-"):
			parts[i] = sub.Render(part)
		case strings.HasPrefix(part, "-"):
			parts[i] = t.Flag.Render(part)
		}
	}
	return "  " + strings.Join(parts, " ")
}

// legalValues describes what a key accepts.
func legalValues(def *schema.Definition) string {
	switch {
	case def.Domain != nil:
		return strings.Join(def.Domain.Values(), ", ")
	case def.Bounded:
		return fmt.Sprintf("%s to %s", def.Format(def.Clamp(def.Min)), def.Format(def.Clamp(def.Max)))
	case def.Type == schema.TypeBool:
		return "true, false"
	}
	return "any text"
}

// sampleValue picks a non-default value of def for an example, or "" when
// the key has no meaningful sample.
func sampleValue(def *schema.Definition) string {
	switch {
	case def.Type == schema.TypeBool:
		on, _ := def.Default.(bool)
		return fmt.Sprint(!on)
	case def.Domain != nil && def.Domain.Len() > 1:
		for _, v := range def.Domain.Values() {
			if v != def.Default {
				return v
			}
		}
	case def.Bounded:
		return def.Format(def.Clamp(def.Max))
	}
	return ""
}

// keyExamples derives one example per value type from the schemas.
func keyExamples(cmdPath string, schemas []*schema.Schema) string {
	seen := map[schema.ValueType]bool{}
	var lines []string
	for _, s := range schemas {
		for _, key := range s.Keys() {
			def, _ := s.Lookup(key)
			if seen[def.Type] {
				continue
			}
			if v := sampleValue(def); v != "" {
				seen[def.Type] = true
				lines = append(lines, fmt.Sprintf("%s %s %s", cmdPath, key, v))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderKeys(w io.Writer, t *Theme, schemas []*schema.Schema, width int) {
	maxLen := 0
	for _, s := range schemas {
		for _, key := range s.Keys() {
			if len(key) > maxLen {
				maxLen = len(key)
			}
		}
	}
	indent := strings.Repeat(" ", maxLen+3)

	fmt.Fprintln(w, "\n "+t.Section.Render("KEYS"))
	for _, s := range schemas {
		for _, key := range s.Keys() {
			def, _ := s.Lookup(key)
			padding := strings.Repeat(" ", maxLen-len(key))
			fmt.Fprintf(w, " %s%s  %s %s\n", t.Command.Render(string(key)), padding, def.Summary, t.Muted.Render("("+string(def.Type)+")"))
			for _, line := range strings.Split(wrapText(legalValues(def), width-len(indent)), "\n") {
				fmt.Fprintf(w, " %s%s\n", indent, t.Muted.Render(line))
			}
		}
	}
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	t := DefaultTheme
	w := cmd.OutOrStdout()
	width := getTerminalWidth() - 2

	fmt.Fprintln(w, " "+t.Title.Render(strings.ToUpper(cmd.CommandPath())))

	var description, examples string
	if cmd.Long != "" {
		description, examples = parseDescription(cmd.Long)
	} else {
		description = cmd.Short
	}
	if cmd.Short != "" {
		for _, line := range strings.Split(wrapText(cmd.Short, width), "\n") {
			fmt.Fprintln(w, " "+t.Italic.Render(line))
		}
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(w)
		for _, line := range strings.Split(wrapText(description, width), "\n") {
			fmt.Fprintln(w, " "+line)
		}
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		fmt.Fprintln(w, "\n "+t.Section.Render("USAGE"))
		if cmd.Runnable() {
			fmt.Fprintf(w, " %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintf(w, " %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		maxLen := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > maxLen {
				maxLen = len(sub.Name())
			}
		}
		fmt.Fprintln(w, "\n "+t.Section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				padding := strings.Repeat(" ", maxLen-len(sub.Name()))
				fmt.Fprintf(w, " %s%s  %s\n", t.Command.Render(sub.Name()), padding, sub.Short)
			}
		}
	}

	var visibleFlags []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visibleFlags = append(visibleFlags, f)
		}
	})
	if len(visibleFlags) > 0 {
		if cmd.HasAvailableSubCommands() {
			var flags []string
			for _, f := range visibleFlags {
				flags = append(flags, "--"+f.Name)
			}
			fmt.Fprintln(w, "\n "+t.Muted.Render("Flags: "+strings.Join(flags, ", ")))
		} else {
			fmt.Fprintln(w, "\n "+t.Section.Render("FLAGS"))
			maxFlagLen := 0
			for _, f := range visibleFlags {
				if l := len(formatFlagName(f)); l > maxFlagLen {
					maxFlagLen = l
				}
			}
			for _, f := range visibleFlags {
				flagStr := formatFlagName(f)
				padding := strings.Repeat(" ", maxFlagLen-len(flagStr))
				usage := f.Usage
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
					usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
				}
				fmt.Fprintf(w, " %s%s  %s\n", t.Flag.Render(flagStr), padding, usage)
			}
		}
	}

	schemas := acceptedSchemas(cmd)
	if len(schemas) > 0 {
		renderKeys(w, t, schemas, width)
	}

	exampleText := cmd.Example
	if exampleText == "" {
		exampleText = examples
	}
	if exampleText == "" && len(schemas) > 0 && strings.Contains(cmd.Use, "VALUE") {
		exampleText = keyExamples(cmd.CommandPath(), schemas)
	}
	if exampleText != "" {
		fmt.Fprintln(w, "\n "+t.Section.Render("EXAMPLES"))
		renderExamples(w, t, exampleText, cmd.CommandPath())
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// formatFlagName returns a formatted flag string like "-f, --flag" or "--flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}
