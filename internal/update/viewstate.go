package update

import "github.com/sandeepkv93/tasklist/internal/model"

// ViewState is everything the view derives from the list. It is rebuilt
// from scratch on every read so the counters can never drift from the list.
type ViewState struct {
	Visible    []*model.Task
	Remaining  int
	Completed  int
	AllChecked bool
	Editing    *model.Task
}

func DeriveViewState(tasks []*model.Task, filter model.StatusFilter, session EditSession) ViewState {
	vs := ViewState{Visible: make([]*model.Task, 0, len(tasks))}
	for _, task := range tasks {
		if !task.Done {
			vs.Remaining++
		}
		if filter.Match(*task) {
			vs.Visible = append(vs.Visible, task)
		}
	}
	vs.Completed = len(tasks) - vs.Remaining
	vs.AllChecked = vs.Remaining == 0
	if session.Active() {
		vs.Editing = session.Task
	}
	return vs
}

func (m Model) ViewState() ViewState {
	return DeriveViewState(m.Tasks, m.Filter, m.Edit)
}
