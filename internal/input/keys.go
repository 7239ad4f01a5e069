package input

// Key names are host neutral: lower-case letters and digits, the symbols
// themselves, and "space" and "escape".
var defaultBindings = map[string]Command{
	"space":  {Type: CmdTogglePlay},
	"c":      {Type: CmdToggleCamera},
	"1":      {Type: CmdSelectRenderer, Renderer: "canvas"},
	"2":      {Type: CmdSelectRenderer, Renderer: "html"},
	"3":      {Type: CmdSelectRenderer, Renderer: "text"},
	"+":      {Type: CmdSensitivity, Delta: 1, Relative: true},
	"=":      {Type: CmdSensitivity, Delta: 1, Relative: true},
	"-":      {Type: CmdSensitivity, Delta: -1, Relative: true},
	"s":      {Type: CmdSnapshot},
	"x":      {Type: CmdClear},
	"q":      {Type: CmdQuit},
	"escape": {Type: CmdQuit},
}

// KeyCommand returns the command bound to a key name.
func KeyCommand(key string) (Command, bool) {
	cmd, ok := defaultBindings[key]
	return cmd, ok
}

// KeyHelp is a one-line summary of the key bindings.
const KeyHelp = "space play/pause  c camera  1 canvas  2 html  3 text  +/- sensitivity  s snapshot  x clear  q quit"
