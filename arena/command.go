package arena

// Action is what the agent does this turn.
type Action string

const (
	ActionMove  Action = "move"
	ActionTurn  Action = "turn"
	ActionShoot Action = "shoot"
	ActionSmoke Action = "smoke"
	ActionNoop  Action = "noop"
)

// Turn is a relative rotation.
type Turn string

const (
	// TurnNone means the agent already faces the desired direction.
	// It is never sent in a command.
	TurnNone      Turn = ""
	TurnLeft      Turn = "left"
	TurnRight     Turn = "right"
	TurnAboutFace Turn = "about-face"
)

// SmokeDirection is where a smoke bomb lands relative to the agent.
type SmokeDirection string

const (
	SmokeForward  SmokeDirection = "forward"
	SmokeBackward SmokeDirection = "backward"
	SmokeLeft     SmokeDirection = "left"
	SmokeRight    SmokeDirection = "right"
	SmokeDrop     SmokeDirection = "drop"
)

var (
	TurnDirections  = []Turn{TurnRight, TurnLeft, TurnAboutFace}
	SmokeDirections = []SmokeDirection{SmokeForward, SmokeBackward, SmokeLeft, SmokeRight, SmokeDrop}
)

// Metadata carries the direction argument of a command, when it has one.
type Metadata struct {
	Direction string `json:"direction,omitempty"`
}

// Command is the agent's decision for one turn.
type Command struct {
	Action   Action   `json:"action"`
	Metadata Metadata `json:"metadata"`
}

func MoveCommand() Command { return Command{Action: ActionMove} }

func NoopCommand() Command { return Command{Action: ActionNoop} }

func TurnCommand(t Turn) Command {
	return Command{Action: ActionTurn, Metadata: Metadata{Direction: string(t)}}
}

func ShootCommand(o Orientation) Command {
	return Command{Action: ActionShoot, Metadata: Metadata{Direction: string(o)}}
}

func SmokeCommand(d SmokeDirection) Command {
	return Command{Action: ActionSmoke, Metadata: Metadata{Direction: string(d)}}
}

func (c Command) String() string {
	if c.Metadata.Direction == "" {
		return string(c.Action)
	}
	return string(c.Action) + " " + c.Metadata.Direction
}
