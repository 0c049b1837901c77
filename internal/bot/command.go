package bot

import "strings"

// Command names understood by the bot.
const (
	CmdStart         = "start"
	CmdHelp          = "help"
	CmdRegisterPoint = "cadastrar_local"
	CmdJoin          = "participar"
	CmdDonate        = "doar"
	CmdValidate      = "validar"
	CmdScoreboard    = "placar"
	CmdCancel        = "cancelar"
)

// Command is a parsed slash command.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits "/name@botname arg1 arg2" into its name and arguments.
// The @botname suffix is dropped and the name is lowercased. ok is false when
// text is not a command.
func ParseCommand(text string) (cmd Command, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(name), Args: fields[1:]}, true
}
