package colors

import "github.com/fatih/color"

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Prefix renders a "[name] " tag used in front of component log lines
func Prefix(name string) string {
	return Yellow("[" + name + "] ")
}
