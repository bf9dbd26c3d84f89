package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bookshelfdev/bookshelf/internal/domain"
	"github.com/bookshelfdev/bookshelf/internal/library"
)

type view int

const (
	viewHome view = iota
	viewSearch
	viewShelf
	viewForm
	viewConfirm
)

var statusCycle = []domain.ReadingStatus{
	domain.StatusToBeRead,
	domain.StatusCurrentlyReading,
	domain.StatusFinished,
}

var formatCycle = []domain.Format{
	domain.FormatDigital,
	domain.FormatHardcover,
	domain.FormatPaperback,
}

// formField indexes the editable rows of the add/edit form.
type formField int

const (
	fieldStatus formField = iota
	fieldFormat
	fieldRating
	fieldReview
	fieldSave
	fieldCount
)

// formState holds the add/edit form. In add mode the entry is built
// from a catalog book; in edit mode it is the existing shelf entry.
type formState struct {
	editing bool
	book    domain.Book
	entry   domain.LibraryBook
	field   formField
	review  textinput.Model
}

// Model is the top-level bubbletea model.
type Model struct {
	svc  *library.Service
	keys KeyMap

	width  int
	height int

	view     view
	prevView view

	// home
	sample        []library.AnnotatedBook
	homeCursor    int
	loadingSample bool

	// search
	searchInput textinput.Model
	typing      bool
	searching   bool
	results     []library.AnnotatedBook
	lastQuery   string
	history     []string
	cursor      int

	// quick filter over loaded results
	filterInput textinput.Model
	filtering   bool

	// shelf
	shelf       []domain.LibraryBook
	shelfCursor int
	shelfOpts   library.ShelfOptions

	form formState

	confirmID    string
	confirmTitle string

	status  string
	lastErr string
}

// NewModel creates the application model.
func NewModel(svc *library.Service) Model {
	search := textinput.New()
	search.Placeholder = "title, author, or isbn:..."
	search.CharLimit = 120

	filter := textinput.New()
	filter.Placeholder = "filter"
	filter.CharLimit = 60

	return Model{
		svc:           svc,
		keys:          DefaultKeyMap(),
		view:          viewHome,
		loadingSample: true,
		searchInput:   search,
		filterInput:   filter,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(LoadSampleCmd(m.svc), LoadHistoryCmd(m.svc))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SampleLoadedMsg:
		m.loadingSample = false
		m.sample = msg.Books
		m.homeCursor = 0
		return m, nil

	case SearchResultsMsg:
		// Drop responses for queries the user has moved past.
		if msg.Query != m.lastQuery {
			return m, nil
		}
		m.searching = false
		m.results = msg.Results
		m.cursor = 0
		return m, LoadHistoryCmd(m.svc)

	case ShelfLoadedMsg:
		m.shelf = msg.Books
		if m.shelfCursor >= len(m.shelf) {
			m.shelfCursor = max(0, len(m.shelf)-1)
		}
		return m, nil

	case HistoryLoadedMsg:
		m.history = msg.Queries
		// The cursor tracks the history list only while no results are
		// shown; keep it on the last entry when the list shrinks.
		if len(m.results) == 0 && m.cursor >= len(m.history) {
			m.cursor = max(0, len(m.history)-1)
		}
		return m, nil

	case BookSavedMsg:
		if msg.Added {
			m.status = successStyle.Render(fmt.Sprintf("Added %q to your library", msg.Title))
		} else {
			m.status = successStyle.Render(fmt.Sprintf("Saved %q", msg.Title))
		}
		m.view = m.prevView
		return m, tea.Batch(m.refreshCmd(), ClearStatusCmd())

	case BookRemovedMsg:
		m.status = successStyle.Render("Removed from library")
		m.view = m.prevView
		return m, tea.Batch(m.refreshCmd(), ClearStatusCmd())

	case ErrMsg:
		m.searching = false
		m.loadingSample = false
		m.lastErr = fmt.Sprintf("%s: %v", msg.Context, msg.Err)
		return m, nil

	case StatusClearMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// refreshCmd reloads the shelf after a mutation and re-annotates any
// loaded catalog lists against the library.
func (m *Model) refreshCmd() tea.Cmd {
	for i := range m.sample {
		m.sample[i].InLibrary = m.svc.InLibrary(m.sample[i].ID)
	}
	for i := range m.results {
		m.results[i].InLibrary = m.svc.InLibrary(m.results[i].ID)
	}
	return LoadShelfCmd(m.svc, m.shelfOpts)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry modes capture all printable keys.
	if m.typing {
		return m.handleSearchTyping(msg)
	}
	if m.filtering {
		return m.handleFilterTyping(msg)
	}
	if m.view == viewForm && m.form.field == fieldReview && m.form.review.Focused() {
		return m.handleReviewTyping(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Home):
		if m.view != viewForm && m.view != viewConfirm {
			m.view = viewHome
			return m, nil
		}
	case key.Matches(msg, m.keys.Search):
		if m.view != viewForm && m.view != viewConfirm {
			m.view = viewSearch
			m.typing = true
			m.searchInput.Focus()
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Shelf):
		if m.view != viewForm && m.view != viewConfirm {
			m.view = viewShelf
			return m, LoadShelfCmd(m.svc, m.shelfOpts)
		}
	}

	switch m.view {
	case viewHome:
		return m.handleHomeKey(msg)
	case viewSearch:
		return m.handleSearchKey(msg)
	case viewShelf:
		return m.handleShelfKey(msg)
	case viewForm:
		return m.handleFormKey(msg)
	case viewConfirm:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	books := m.visibleHome()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.homeCursor < len(books)-1 {
			m.homeCursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.loadingSample = true
		m.filterInput.SetValue("")
		return m, LoadSampleCmd(m.svc)
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.Select):
		if m.homeCursor < len(books) {
			return m.openAddForm(books[m.homeCursor])
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.results) == 0 {
		// History list is active.
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.history)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if m.cursor < len(m.history) {
				return m.startSearch(m.history[m.cursor])
			}
		case key.Matches(msg, m.keys.Delete):
			if m.cursor < len(m.history) {
				return m, ForgetSearchCmd(m.svc, m.history[m.cursor])
			}
		case key.Matches(msg, m.keys.Back):
			m.view = viewHome
		}
		return m, nil
	}

	books := m.visibleResults()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(books)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.Select):
		if m.cursor < len(books) {
			return m.openAddForm(books[m.cursor])
		}
	case key.Matches(msg, m.keys.Back):
		m.results = nil
		m.lastQuery = ""
		m.cursor = 0
		m.filterInput.SetValue("")
	}
	return m, nil
}

func (m Model) handleShelfKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.shelfCursor > 0 {
			m.shelfCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.shelfCursor < len(m.shelf)-1 {
			m.shelfCursor++
		}
	case key.Matches(msg, m.keys.Sort):
		if m.shelfOpts.Order == library.SortNewestFirst {
			m.shelfOpts.Order = library.SortOldestFirst
		} else {
			m.shelfOpts.Order = library.SortNewestFirst
		}
		return m, LoadShelfCmd(m.svc, m.shelfOpts)
	case key.Matches(msg, m.keys.Status):
		m.shelfOpts.Status = nextStatusFilter(m.shelfOpts.Status)
		return m, LoadShelfCmd(m.svc, m.shelfOpts)
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(m.shelfOpts.TitleFilter)
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		if m.shelfCursor < len(m.shelf) {
			return m.openEditForm(m.shelf[m.shelfCursor])
		}
	case key.Matches(msg, m.keys.Delete):
		if m.shelfCursor < len(m.shelf) {
			entry := m.shelf[m.shelfCursor]
			m.confirmID = entry.ID
			m.confirmTitle = entry.Book.Title
			m.prevView = viewShelf
			m.view = viewConfirm
		}
	case key.Matches(msg, m.keys.Back):
		m.view = viewHome
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = m.prevView
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.form.field > 0 {
			m.form.field--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.form.field < fieldCount-1 {
			m.form.field++
		}
		return m, nil
	}

	switch m.form.field {
	case fieldStatus:
		if isCycleKey(msg) {
			m.form.entry.Status = cycleStatus(m.form.entry.Status, cycleDir(msg))
		}
	case fieldFormat:
		if isCycleKey(msg) {
			m.form.entry.Format = cycleFormat(m.form.entry.Format, cycleDir(msg))
		}
	case fieldRating:
		switch msg.String() {
		case "left", "-":
			if m.form.entry.Rating > 0 {
				m.form.entry.Rating--
			}
		case "right", "+":
			if m.form.entry.Rating < domain.MaxRating {
				m.form.entry.Rating++
			}
		case "0", "1", "2", "3", "4", "5":
			m.form.entry.Rating = int(msg.String()[0] - '0')
		}
	case fieldReview:
		if key.Matches(msg, m.keys.Select) {
			m.form.review.Focus()
			return m, textinput.Blink
		}
	case fieldSave:
		if key.Matches(msg, m.keys.Select) {
			return m.submitForm()
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, RemoveBookCmd(m.svc, m.confirmID)
	case "n", "N", "esc":
		m.view = m.prevView
	}
	return m, nil
}

func (m Model) handleSearchTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.typing = false
		m.searchInput.Blur()
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		return m.startSearch(query)
	case "esc":
		m.typing = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFilterTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filterInput.Blur()
		if msg.String() == "esc" {
			m.filterInput.SetValue("")
		}
		if m.view == viewShelf {
			m.shelfOpts.TitleFilter = m.filterInput.Value()
			return m, LoadShelfCmd(m.svc, m.shelfOpts)
		}
		m.homeCursor = 0
		m.cursor = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.view != viewShelf {
		m.homeCursor = 0
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) handleReviewTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.form.review.Blur()
		m.form.entry.Review = m.form.review.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.form.review, cmd = m.form.review.Update(msg)
	return m, cmd
}

func (m Model) startSearch(query string) (tea.Model, tea.Cmd) {
	m.searching = true
	m.lastErr = ""
	m.lastQuery = query
	m.searchInput.SetValue(query)
	m.filterInput.SetValue("")
	m.cursor = 0

	// An isbn: prefix routes through the scanner-path lookup instead of
	// a free-text query.
	if isbn, ok := strings.CutPrefix(query, "isbn:"); ok {
		return m, LookupISBNCmd(m.svc, query, strings.TrimSpace(isbn))
	}
	return m, SearchCmd(m.svc, query)
}

func (m Model) openAddForm(book library.AnnotatedBook) (tea.Model, tea.Cmd) {
	if book.InLibrary {
		m.status = dimStyle.Render("Already in your library")
		return m, ClearStatusCmd()
	}
	review := textinput.New()
	review.Placeholder = "a few words (optional)"
	review.CharLimit = domain.MaxReviewLen
	m.form = formState{
		book: book.Book,
		entry: domain.LibraryBook{
			ID:     book.ID,
			Book:   book.Book,
			Status: domain.StatusToBeRead,
			Format: domain.FormatDigital,
		},
		review: review,
	}
	m.prevView = m.view
	m.view = viewForm
	return m, nil
}

func (m Model) openEditForm(entry domain.LibraryBook) (tea.Model, tea.Cmd) {
	review := textinput.New()
	review.CharLimit = domain.MaxReviewLen
	review.SetValue(entry.Review)
	m.form = formState{
		editing: true,
		book:    entry.Book,
		entry:   entry,
		review:  review,
	}
	m.prevView = m.view
	m.view = viewForm
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	m.form.entry.Review = m.form.review.Value()
	if m.form.editing {
		return m, EditBookCmd(m.svc, m.form.entry)
	}
	e := m.form.entry
	return m, AddBookCmd(m.svc, e.Book, e.Status, e.Format, e.Rating, e.Review)
}

// visibleHome applies the quick filter to the sample.
func (m Model) visibleHome() []library.AnnotatedBook {
	return filterBooks(m.sample, strings.TrimSpace(m.filterInput.Value()))
}

// visibleResults applies the quick filter to the search results.
func (m Model) visibleResults() []library.AnnotatedBook {
	return filterBooks(m.results, strings.TrimSpace(m.filterInput.Value()))
}

func isCycleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "right", "enter", " ":
		return true
	}
	return false
}

func cycleDir(msg tea.KeyMsg) int {
	if msg.String() == "left" {
		return -1
	}
	return 1
}

func cycleStatus(s domain.ReadingStatus, dir int) domain.ReadingStatus {
	for i, v := range statusCycle {
		if v == s {
			return statusCycle[(i+dir+len(statusCycle))%len(statusCycle)]
		}
	}
	return statusCycle[0]
}

func cycleFormat(f domain.Format, dir int) domain.Format {
	for i, v := range formatCycle {
		if v == f {
			return formatCycle[(i+dir+len(formatCycle))%len(formatCycle)]
		}
	}
	return formatCycle[0]
}

// nextStatusFilter cycles all -> TBR -> CurrentlyReading -> Finished -> all.
func nextStatusFilter(s domain.ReadingStatus) domain.ReadingStatus {
	switch s {
	case "":
		return domain.StatusToBeRead
	case domain.StatusToBeRead:
		return domain.StatusCurrentlyReading
	case domain.StatusCurrentlyReading:
		return domain.StatusFinished
	default:
		return ""
	}
}

func (m Model) View() string {
	var body string
	switch m.view {
	case viewHome:
		body = m.viewHome()
	case viewSearch:
		body = m.viewSearch()
	case viewShelf:
		body = m.viewShelf()
	case viewForm:
		body = m.viewForm()
	case viewConfirm:
		body = m.viewConfirm()
	}

	footer := m.viewFooter()
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Bookshelf") + "\n\n")

	if m.loadingSample {
		b.WriteString(dimStyle.Render("Fetching books...") + "\n")
		return b.String()
	}

	books := m.visibleHome()
	if len(books) == 0 {
		b.WriteString(dimStyle.Render("Nothing to show. Press r to refresh.") + "\n")
		return b.String()
	}

	if m.filtering || m.filterInput.Value() != "" {
		b.WriteString(accentStyle.Render("/ ") + m.filterInput.View() + "\n\n")
	}

	b.WriteString(m.renderCatalogList(books, m.homeCursor))
	return b.String()
}

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Search") + "\n\n")
	b.WriteString(accentStyle.Render("> ") + m.searchInput.View() + "\n\n")

	if m.searching {
		b.WriteString(dimStyle.Render("Searching...") + "\n")
		return b.String()
	}

	if len(m.results) == 0 {
		if m.lastQuery != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("No results for %q", m.lastQuery)) + "\n\n")
		}
		if len(m.history) > 0 {
			b.WriteString(subtitleStyle.Render("Recent searches") + "\n")
			for i, q := range m.history {
				line := "  " + q
				if i == m.cursor && !m.typing {
					line = selectedStyle.Render(q)
				}
				b.WriteString(line + "\n")
			}
		}
		return b.String()
	}

	if m.filtering || m.filterInput.Value() != "" {
		b.WriteString(accentStyle.Render("/ ") + m.filterInput.View() + "\n\n")
	}

	b.WriteString(m.renderCatalogList(m.visibleResults(), m.cursor))
	return b.String()
}

func (m Model) renderCatalogList(books []library.AnnotatedBook, cursor int) string {
	var b strings.Builder
	for i, book := range books {
		mark := " "
		if book.InLibrary {
			mark = inLibraryMark
		}
		line := fmt.Sprintf("%s %s %s %s",
			mark,
			titleStyle.Render(book.Title),
			subtitleStyle.Render(book.AuthorLine()),
			starRow(book.AverageRating),
		)
		if i == cursor {
			line = accentStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewShelf() string {
	var b strings.Builder
	heading := "My Library"
	if m.shelfOpts.Status != "" {
		heading += " · " + m.shelfOpts.Status.String()
	}
	if m.shelfOpts.Order == library.SortOldestFirst {
		heading += " · oldest first"
	}
	b.WriteString(headerStyle.Render(heading) + "\n\n")

	if m.filtering {
		b.WriteString(accentStyle.Render("/ ") + m.filterInput.View() + "\n\n")
	} else if m.shelfOpts.TitleFilter != "" {
		b.WriteString(dimStyle.Render("filter: "+m.shelfOpts.TitleFilter) + "\n\n")
	}

	if len(m.shelf) == 0 {
		b.WriteString(dimStyle.Render("Your shelf is empty. Search the catalog and press a to add books.") + "\n")
		return b.String()
	}

	for i, entry := range m.shelf {
		line := fmt.Sprintf("%s %s %s  %s",
			titleStyle.Render(entry.Book.Title),
			subtitleStyle.Render(entry.Book.AuthorLine()),
			dimStyle.Render(fmt.Sprintf("[%s · %s]", entry.Status, entry.Format)),
			starRowInt(entry.Rating),
		)
		if i == m.shelfCursor {
			line = accentStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.form.editing {
		b.WriteString(headerStyle.Render("Edit Book") + "\n\n")
	} else {
		b.WriteString(headerStyle.Render("Add to Library") + "\n\n")
	}

	b.WriteString(titleStyle.Render(m.form.book.Title) + "\n")
	b.WriteString(subtitleStyle.Render(m.form.book.AuthorLine()) + "\n")
	if len(m.form.book.Categories) > 0 {
		b.WriteString(genreStyle.Render(m.form.book.Categories[0]) + "\n")
	}
	b.WriteString("\n")

	rows := []struct {
		field formField
		label string
		value string
	}{
		{fieldStatus, "Status", m.form.entry.Status.String()},
		{fieldFormat, "Format", string(m.form.entry.Format)},
		{fieldRating, "Rating", starRowInt(m.form.entry.Rating)},
		{fieldReview, "Review", m.reviewRow()},
		{fieldSave, "", successStyle.Render("[ Save ]")},
	}
	for _, row := range rows {
		prefix := "  "
		if row.field == m.form.field {
			prefix = accentStyle.Render("> ")
		}
		if row.label == "" {
			b.WriteString(prefix + row.value + "\n")
			continue
		}
		b.WriteString(fmt.Sprintf("%s%-8s %s\n", prefix, subtitleStyle.Render(row.label), row.value))
	}

	b.WriteString("\n" + dimStyle.Render("←/→ change · ↑/↓ move · enter edit/confirm · esc cancel") + "\n")
	return b.String()
}

func (m Model) reviewRow() string {
	if m.form.review.Focused() {
		return m.form.review.View()
	}
	if v := m.form.review.Value(); v != "" {
		return v
	}
	return dimStyle.Render("(none)")
}

func (m Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Remove Book") + "\n\n")
	b.WriteString(fmt.Sprintf("Remove %s from your library?\n\n", titleStyle.Render(m.confirmTitle)))
	b.WriteString(errorStyle.Render("y") + dimStyle.Render(" remove · ") + successStyle.Render("n") + dimStyle.Render(" keep") + "\n")
	return b.String()
}

func (m Model) viewFooter() string {
	if m.lastErr != "" {
		return errorStyle.Render("✗ " + m.lastErr)
	}
	if m.status != "" {
		return m.status
	}
	switch m.view {
	case viewHome:
		return dimStyle.Render("s search · l library · / filter · a add · r refresh · q quit")
	case viewSearch:
		return dimStyle.Render("enter search · / filter · a add · d forget · esc back · q quit")
	case viewShelf:
		return dimStyle.Render("e edit · d delete · o order · t status · / filter · esc back · q quit")
	default:
		return ""
	}
}
