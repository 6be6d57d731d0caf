package teatest

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type bumpMsg struct{}

// counter counts key presses; "b" emits a follow-up message through a Cmd.
type counter struct {
	keys  string
	bumps int
	width int
}

func (c *counter) Init() tea.Cmd {
	return func() tea.Msg { return bumpMsg{} }
}

func (c *counter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
	case bumpMsg:
		c.bumps++
	case tea.KeyMsg:
		c.keys += msg.String()
		switch msg.String() {
		case "b":
			return c, tea.Batch(
				func() tea.Msg { return bumpMsg{} },
				func() tea.Msg { return bumpMsg{} },
			)
		case "q":
			return c, tea.Quit
		}
	}
	return c, nil
}

func (c *counter) View() string {
	return fmt.Sprintf("keys=%s bumps=%d width=%d", c.keys, c.bumps, c.width)
}

func TestDriver_DrainsInitAndBatches(t *testing.T) {
	d := New(t, &counter{}, WithSize(80, 24))
	assert.Equal(t, "keys= bumps=1 width=80", d.View())

	d.Press("ab")
	assert.Equal(t, "keys=ab bumps=3 width=80", d.View())

	d.PressType(tea.KeyTab, 2)
	assert.Equal(t, "keys=abtabtab bumps=3 width=80", d.View())
}

func TestDriver_StopsAfterQuit(t *testing.T) {
	d := New(t, &counter{})
	d.Press("qa")
	assert.True(t, d.Quitting)
	assert.Equal(t, "keys=q bumps=1 width=0", d.View())
}

func TestDriver_SkipsSlowCmds(t *testing.T) {
	d := New(t, &counter{})
	d.drain(tea.Tick(cmdTimeout*10, func(time.Time) tea.Msg { return bumpMsg{} }), 0)
	assert.Equal(t, "keys= bumps=1 width=0", d.View())
}
