package update

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// Store is the persistence collaborator. Calls run inside tea.Cmds, off the
// update loop, and only ever see copies of tasks.
type Store interface {
	Insert(ctx context.Context, t model.Task) (model.Task, error)
	Put(ctx context.Context, t model.Task, index int) (model.Task, error)
	Delete(ctx context.Context, t model.Task) error
	ClearCompleted(ctx context.Context) ([]string, error)
	// Save creates a new record from t's text; used by CloneTask.
	Save(ctx context.Context, t model.Task) (model.Task, error)
	List(ctx context.Context, filter model.StatusFilter) ([]model.Task, error)
}

type Focus string

const (
	FocusList  Focus = "list"
	FocusInput Focus = "input"
	FocusEdit  Focus = "edit"
)

type EditPhase string

const (
	EditIdle       EditPhase = "idle"
	EditEditing    EditPhase = "editing"
	EditCommitting EditPhase = "committing"
)

// EditSession is the single edit slot. Snapshot is a detached clone of the
// task taken when the edit began.
type EditSession struct {
	Phase    EditPhase
	Task     *model.Task
	Snapshot *model.Task
}

func (s EditSession) Active() bool {
	return s.Phase != EditIdle && s.Task != nil
}

type Trigger string

const (
	TriggerSubmit Trigger = "submit"
	TriggerBlur   Trigger = "blur"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	ShowAll       string
	ShowActive    string
	ShowCompleted string
	NewTask       string
	Help          string
	Quit          string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Tasks []*model.Task
	// Input mirrors the new-task text field.
	Input   string
	Edit    EditSession
	Status  string
	Filter  model.StatusFilter
	Saving  bool
	Cursor  int
	Focus   Focus
	Palette CommandPaletteState

	StatusBar   StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool
	LastError   error

	store        Store
	ctx          context.Context
	markdownHelp bool
	clipboard    func(string) error

	newInput     textinput.Model
	editInput    textinput.Model
	commandInput textinput.Model
	savingSpin   spinner.Model
	helpModel    help.Model
}

// Messages delivered back into Update when a store call settles.

type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

type taskInsertedMsg struct {
	Task model.Task
	Err  error
}

type editSettledMsg struct {
	Task     *model.Task
	Snapshot *model.Task
	Deleted  bool
	Err      error
}

type taskRemovedMsg struct {
	Task *model.Task
	Err  error
}

type toggleSettledMsg struct {
	Task *model.Task
	// Prev is the done flag before the toggle was applied.
	Prev bool
	Err  error
}

type taskSavedMsg struct {
	Task *model.Task
	Err  error
}

type completedClearedMsg struct {
	IDs []string
	Err error
}

type taskClonedMsg struct {
	Source   *model.Task
	Snapshot []*model.Task
	Created  model.Task
	Err      error
}

type clonePutSettledMsg struct {
	Task *model.Task
	Err  error
}

// RouteChangedMsg is the navigation signal; Status is "", "active" or "completed".
type RouteChangedMsg struct {
	Status string
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func NewModel(store Store) Model {
	return NewModelWithConfig(store, DefaultRuntimeConfig())
}

func NewModelWithConfig(store Store, cfg RuntimeConfig) Model {
	m := Model{
		Filter:       model.FilterAll,
		Focus:        FocusList,
		Edit:         EditSession{Phase: EditIdle},
		store:        store,
		ctx:          context.Background(),
		markdownHelp: cfg.MarkdownHelp,
		clipboard:    writeClipboard,
		Keys: GlobalKeyMap{
			ShowAll:       "1",
			ShowActive:    "2",
			ShowCompleted: "3",
			NewTask:       "n",
			Help:          "?",
			Quit:          "q",
		},
	}
	m.initBubbleComponents()
	m.applyStatus(cfg.InitialStatus)
	return m
}

// WithContext sets the base context handed to every store call.
func (m Model) WithContext(ctx context.Context) Model {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.newInput = textinput.New()
	m.newInput.Prompt = "new> "
	m.newInput.Placeholder = "What needs to be done?"
	m.newInput.CharLimit = 256
	m.newInput.Width = 48

	m.editInput = textinput.New()
	m.editInput.Prompt = ""
	m.editInput.CharLimit = 256
	m.editInput.Width = 44

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.savingSpin = spinner.New()
	m.savingSpin.Spinner = spinner.Dot

	m.helpModel = help.New()
}
