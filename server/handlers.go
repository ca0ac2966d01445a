package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tempoapp/tempo/board"
	"github.com/tempoapp/tempo/habit"
	"github.com/tempoapp/tempo/task"
	"github.com/tempoapp/tempo/timelog"
	"github.com/tempoapp/tempo/user"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	u, err := s.users.Register(r.Context(), payload.Email, payload.Name, payload.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: *u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	u, err := s.users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: *u})
}

type habitCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Goal        int    `json:"goal"`
}

type habitToggleRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleHabitsList(w http.ResponseWriter, r *http.Request) {
	habits, err := s.habits.List(r.Context(), owner(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (s *Server) handleHabitsCreate(w http.ResponseWriter, r *http.Request) {
	var payload habitCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.habits.Create(r.Context(), owner(r), payload.Name, habit.CreateOptions{
		Description: payload.Description,
		Goal:        payload.Goal,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleHabitsToggle(w http.ResponseWriter, r *http.Request) {
	var payload habitToggleRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	updated, err := s.habits.Toggle(r.Context(), owner(r), r.PathValue("id"), payload.Date)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleHabitsStats(w http.ResponseWriter, r *http.Request) {
	h, err := s.habits.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Stats())
}

func (s *Server) handleHabitsProgress(w http.ResponseWriter, r *http.Request) {
	week := r.URL.Query().Get("week")
	if week == "" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("week query parameter is required"))
		return
	}
	h, err := s.habits.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	progress, err := h.WeeklyProgress(week)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleHabitsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.habits.Delete(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type boardCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Background  string `json:"background"`
}

type boardUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Background  *string `json:"background"`
}

func (s *Server) handleBoardsList(w http.ResponseWriter, r *http.Request) {
	boards, err := s.boards.ListBoards(r.Context(), owner(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if boards == nil {
		boards = []board.Board{}
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleBoardsCreate(w http.ResponseWriter, r *http.Request) {
	var payload boardCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.boards.CreateBoard(r.Context(), owner(r), payload.Title, board.BoardOptions{
		Description: payload.Description,
		Background:  payload.Background,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleBoardsGet(w http.ResponseWriter, r *http.Request) {
	b, err := s.boards.GetBoard(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleBoardsUpdate(w http.ResponseWriter, r *http.Request) {
	var payload boardUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	updated, err := s.boards.UpdateBoard(r.Context(), owner(r), r.PathValue("id"), board.UpdateBoardOptions{
		Title:       payload.Title,
		Description: payload.Description,
		Background:  payload.Background,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleBoardsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.boards.DeleteBoard(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type columnCreateRequest struct {
	BoardID string `json:"boardId"`
	Title   string `json:"title"`
}

type columnRenameRequest struct {
	Title string `json:"title"`
}

type idRef struct {
	ID string `json:"id"`
}

type columnsReorderRequest struct {
	Columns []idRef `json:"columns"`
}

func (s *Server) handleColumnsList(w http.ResponseWriter, r *http.Request) {
	boardID := r.URL.Query().Get("boardId")
	if boardID == "" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("boardId query parameter is required"))
		return
	}
	columns, err := s.boards.Columns(r.Context(), owner(r), boardID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if columns == nil {
		columns = []board.Column{}
	}
	writeJSON(w, http.StatusOK, columns)
}

func (s *Server) handleColumnsCreate(w http.ResponseWriter, r *http.Request) {
	var payload columnCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.boards.CreateColumn(r.Context(), owner(r), payload.BoardID, payload.Title)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleColumnsRename(w http.ResponseWriter, r *http.Request) {
	var payload columnRenameRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	updated, err := s.boards.RenameColumn(r.Context(), owner(r), r.PathValue("id"), payload.Title)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleColumnsReorder(w http.ResponseWriter, r *http.Request) {
	var payload columnsReorderRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	orderedIDs := make([]string, len(payload.Columns))
	for i, ref := range payload.Columns {
		orderedIDs[i] = ref.ID
	}
	columns, err := s.boards.ReorderColumns(r.Context(), owner(r), r.PathValue("boardId"), orderedIDs)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

func (s *Server) handleColumnsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.boards.DeleteColumn(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type cardCreateRequest struct {
	ColumnID string `json:"columnId"`
	Content  string `json:"content"`
}

type cardUpdateRequest struct {
	Content  *string `json:"content"`
	ColumnID *string `json:"columnId"`
	Order    *int    `json:"order"`
}

type cardsReorderRequest struct {
	Cards []idRef `json:"cards"`
}

func (s *Server) handleCardsList(w http.ResponseWriter, r *http.Request) {
	columnID := r.URL.Query().Get("columnId")
	if columnID == "" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("columnId query parameter is required"))
		return
	}
	cards, err := s.boards.Cards(r.Context(), owner(r), columnID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if cards == nil {
		cards = []board.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCardsCreate(w http.ResponseWriter, r *http.Request) {
	var payload cardCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.boards.CreateCard(r.Context(), owner(r), payload.ColumnID, payload.Content)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleCardsUpdate edits content, moves the card, or both. A move is
// requested by sending an order (with an optional target columnId).
func (s *Server) handleCardsUpdate(w http.ResponseWriter, r *http.Request) {
	var payload cardUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if payload.Content == nil && payload.Order == nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("nothing to update"))
		return
	}

	id := r.PathValue("id")
	var updated *board.Card
	var err error
	if payload.Content != nil {
		updated, err = s.boards.UpdateCardContent(r.Context(), owner(r), id, *payload.Content)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}
	if payload.Order != nil {
		targetColumn := ""
		if payload.ColumnID != nil {
			targetColumn = *payload.ColumnID
		}
		updated, err = s.boards.MoveCard(r.Context(), owner(r), id, targetColumn, *payload.Order)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCardsReorder(w http.ResponseWriter, r *http.Request) {
	var payload cardsReorderRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	orderedIDs := make([]string, len(payload.Cards))
	for i, ref := range payload.Cards {
		orderedIDs[i] = ref.ID
	}
	cards, err := s.boards.ReorderCards(r.Context(), owner(r), r.PathValue("columnId"), orderedIDs)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCardsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.boards.DeleteCard(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type taskCreateRequest struct {
	Text        string `json:"text"`
	Description string `json:"description"`
	Day         string `json:"day"`
	ProjectID   string `json:"projectId"`
}

type taskUpdateRequest struct {
	Text        *string `json:"text"`
	Description *string `json:"description"`
	Day         *string `json:"day"`
	Done        *bool   `json:"done"`
	ProjectID   *string `json:"projectId"`
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tasks, err := s.tasks.ListTasks(r.Context(), owner(r), task.ListFilter{
		From:      query.Get("from"),
		To:        query.Get("to"),
		ProjectID: query.Get("projectId"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	var payload taskCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.tasks.CreateTask(r.Context(), owner(r), payload.Text, task.CreateTaskOptions{
		Description: payload.Description,
		Day:         payload.Day,
		ProjectID:   payload.ProjectID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTasksUpdate(w http.ResponseWriter, r *http.Request) {
	var payload taskUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	updated, err := s.tasks.UpdateTask(r.Context(), owner(r), r.PathValue("id"), task.UpdateTaskOptions{
		Text:        payload.Text,
		Description: payload.Description,
		Day:         payload.Day,
		Done:        payload.Done,
		ProjectID:   payload.ProjectID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.DeleteTask(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type projectCreateRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type projectUpdateRequest struct {
	Name *string `json:"name"`
	Icon *string `json:"icon"`
}

func (s *Server) handleProjectsList(w http.ResponseWriter, r *http.Request) {
	projects, err := s.tasks.ListProjects(r.Context(), owner(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if projects == nil {
		projects = []task.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleProjectsCreate(w http.ResponseWriter, r *http.Request) {
	var payload projectCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.tasks.CreateProject(r.Context(), owner(r), payload.Name, payload.Icon)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleProjectsUpdate(w http.ResponseWriter, r *http.Request) {
	var payload projectUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	updated, err := s.tasks.UpdateProject(r.Context(), owner(r), r.PathValue("id"), task.UpdateProjectOptions{
		Name: payload.Name,
		Icon: payload.Icon,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleProjectsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.DeleteProject(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type entryCreateRequest struct {
	TaskName    string    `json:"taskName"`
	Duration    int       `json:"duration"`
	Source      string    `json:"source"`
	TaskID      string    `json:"taskId"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	StartedAt   time.Time `json:"startedAt"`
}

func (s *Server) handleEntriesList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.List(r.Context(), owner(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if entries == nil {
		entries = []timelog.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleEntriesCreate(w http.ResponseWriter, r *http.Request) {
	var payload entryCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.entries.Create(r.Context(), owner(r), payload.TaskName, payload.Duration, timelog.Source(payload.Source), timelog.CreateOptions{
		TaskID:      payload.TaskID,
		ProjectID:   payload.ProjectID,
		ProjectName: payload.ProjectName,
		StartedAt:   payload.StartedAt,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleEntriesDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.entries.Delete(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
