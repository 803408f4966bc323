package kiosk

import (
	"fmt"
	"time"

	"visitor-kiosk/internal/i18n"
	"visitor-kiosk/internal/model"
	"visitor-kiosk/internal/rotation"
)

// DisplayMode selects what fills the main area of the screen.
type DisplayMode string

const (
	ModeDocument DisplayMode = "document"
	ModeVisitors DisplayMode = "visitors"
	ModeMedia    DisplayMode = "media"
	ModeEmpty    DisplayMode = "empty"
	ModeBlank    DisplayMode = "blank"
)

// DefaultRoomCaption is shown when the room status carries no name.
const DefaultRoomCaption = "MEETING ROOM STATUS"

// Tagline is printed under the visitor slideshow.
const Tagline = "Have a nice journey"

// View is a snapshot of everything the kiosk page renders.
type View struct {
	Clock   string      `json:"clock"`
	Date    time.Time   `json:"date"`
	Locale  string      `json:"locale"`
	Welcome string      `json:"welcome"`
	Mode    DisplayMode `json:"mode"`
	State   State       `json:"state"`
	Error   string      `json:"error,omitempty"`
	Tagline string      `json:"tagline"`

	Visitor      *model.Visitor `json:"visitor,omitempty"`
	VisitorIndex int            `json:"visitorIndex"`
	VisitorCount int            `json:"visitorCount"`

	Media        string `json:"media,omitempty"`
	MediaIsVideo bool   `json:"mediaIsVideo"`

	EmptyTitle       string `json:"emptyTitle,omitempty"`
	EmptyDescription string `json:"emptyDescription,omitempty"`

	Picker *PickerView `json:"picker,omitempty"`
	Modal  *ModalView  `json:"modal,omitempty"`
	Room   *RoomView   `json:"room,omitempty"`
}

// PickerEntry is one selectable pending visitor.
type PickerEntry struct {
	VisitorID int64  `json:"visitorId"`
	Label     string `json:"label"`
}

// PickerView is the pending check-in picker.
type PickerView struct {
	Title       string        `json:"title"`
	Placeholder string        `json:"placeholder"`
	Count       int           `json:"count"`
	Entries     []PickerEntry `json:"entries"`
}

// ModalView is the document modal.
type ModalView struct {
	Captions      i18n.Modal `json:"captions"`
	VisitorID     int64      `json:"visitorId"`
	GuestName     string     `json:"guestName"`
	CompanyName   string     `json:"companyName"`
	Status        string     `json:"status"`
	DocumentReady bool       `json:"documentReady"`
	AcceptEnabled bool       `json:"acceptEnabled"`
	CancelEnabled bool       `json:"cancelEnabled"`
}

// RoomView is the meeting room footer.
type RoomView struct {
	Caption  string `json:"caption"`
	Occupied bool   `json:"occupied"`
	Word     string `json:"word"`
	Meeting  string `json:"meeting,omitempty"`
	UpTo     string `json:"upTo,omitempty"`
}

// Snapshot composes the current view.
func (c *Controller) Snapshot() View {
	now := c.now()
	welcome := i18n.WelcomeAt(c.rot.Index(rotation.Welcome))
	langIndex := c.rot.Index(rotation.Welcome)

	visitors := c.models.Visitors()
	pending := c.models.Pending()
	media := c.models.Media()

	c.mu.Lock()
	wf := c.wf
	var selected model.Visitor
	if wf.visitor != nil {
		selected = *wf.visitor
	}
	c.mu.Unlock()

	v := View{
		Clock:        now.Format("15:04"),
		Date:         now,
		Locale:       welcome.Locale,
		Welcome:      welcome.Text,
		State:        wf.state,
		Tagline:      Tagline,
		VisitorCount: len(visitors),
		Mode:         displayMode(wf.state, len(visitors), len(pending), len(media)),
	}
	if wf.err != nil {
		v.Error = wf.err.Error()
	}

	switch v.Mode {
	case ModeVisitors:
		idx := clampIndex(c.rot.Index(rotation.Visitor), len(visitors))
		v.VisitorIndex = idx
		current := visitors[idx]
		v.Visitor = &current
	case ModeMedia:
		file := media[clampIndex(c.rot.Index(rotation.Media), len(media))]
		v.Media = file
		v.MediaIsVideo = model.IsVideoFile(file)
	case ModeEmpty:
		v.EmptyTitle = welcome.NoVisitors
		v.EmptyDescription = welcome.NoVisitorsDesc
	}

	if wf.state.ModalShown() {
		v.Modal = modalView(wf, selected, langIndex)
	} else if len(pending) > 0 {
		v.Picker = pickerView(pending, langIndex)
	}

	if status := c.models.RoomStatus(); status != nil {
		v.Room = roomView(status, c.rot.Index(rotation.Room))
	}
	return v
}

func displayMode(state State, visitors, pending, media int) DisplayMode {
	switch {
	case state.ModalShown():
		return ModeDocument
	case visitors > 0:
		return ModeVisitors
	case media > 0 && pending == 0:
		return ModeMedia
	case media == 0:
		return ModeEmpty
	default:
		return ModeBlank
	}
}

func modalView(wf workflow, visitor model.Visitor, langIndex int) *ModalView {
	captions := i18n.ModalAt(langIndex)
	m := &ModalView{
		Captions:      captions,
		VisitorID:     visitor.VisitorID,
		GuestName:     visitor.GuestName,
		CompanyName:   visitor.CompanyName,
		AcceptEnabled: wf.state == Unlocked,
		CancelEnabled: wf.state != Accepting,
	}
	switch wf.state {
	case Loading, Accepting:
		m.Status = captions.Loading
	case Gated:
		m.Status = captions.WaitMessage
		m.DocumentReady = true
	case Unlocked:
		m.Status = captions.ReadyMessage
		m.DocumentReady = true
	case Unavailable:
		m.Status = captions.NoDocument
	}
	if wf.state == Accepting {
		m.DocumentReady = true
	}
	return m
}

func pickerView(pending []model.Visitor, langIndex int) *PickerView {
	captions := i18n.PickerAt(langIndex)
	p := &PickerView{
		Title:       captions.Title,
		Placeholder: captions.Placeholder,
		Count:       len(pending),
		Entries:     make([]PickerEntry, 0, len(pending)),
	}
	for _, v := range pending {
		p.Entries = append(p.Entries, PickerEntry{
			VisitorID: v.VisitorID,
			Label:     fmt.Sprintf("%s - %s", v.GuestName, v.CompanyName),
		})
	}
	return p
}

func roomView(status *model.RoomStatus, langIndex int) *RoomView {
	words := i18n.RoomAt(langIndex)
	r := &RoomView{
		Caption:  status.RoomName,
		Occupied: status.IsOccupied,
		Word:     words.Free,
	}
	if r.Caption == "" {
		r.Caption = DefaultRoomCaption
	}
	if !status.IsOccupied {
		return r
	}
	r.Word = words.Occupied
	if b := status.CurrentBooking; b != nil {
		r.Meeting = b.MeetingTitle
		if r.Meeting == "" {
			r.Meeting = b.Organizer
		}
		r.UpTo = fmt.Sprintf("%s %s", words.UpTo, b.EndTime.Local().Format("15:04"))
	}
	return r
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return i % n
}
