package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/raywall/student-records-service/pkg/events"
	"github.com/raywall/student-records-service/pkg/metrics"
	"github.com/raywall/student-records-service/students"
)

// Server é a borda HTTP do serviço de registros de estudantes.
type Server struct {
	svc      *students.Service
	tables   *students.TableManager
	events   *events.Publisher
	metrics  metrics.Provider
	logger   zerolog.Logger
	validate *validator.Validate
}

// NewServer monta a borda HTTP com as dependências explícitas.
func NewServer(svc *students.Service, tables *students.TableManager, publisher *events.Publisher, provider metrics.Provider, logger zerolog.Logger) *Server {
	return &Server{
		svc:      svc,
		tables:   tables,
		events:   publisher,
		metrics:  provider,
		logger:   logger,
		validate: validator.New(),
	}
}

// Router constrói o roteador com todas as rotas do serviço. As rotas de busca
// são registradas antes de /students/{id} para o mux não engolir "search" como
// um id.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.ObservabilityMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/students/search/address", s.handleSearchByAddress).Methods(http.MethodGet)
	r.HandleFunc("/students/search/email-domain", s.handleSearchByEmailDomain).Methods(http.MethodGet)
	r.HandleFunc("/students/search", s.handleSearch).Methods(http.MethodGet)

	r.HandleFunc("/students", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/students", s.handleGetAll).Methods(http.MethodGet)
	r.HandleFunc("/students/{id}", s.handleGetByID).Methods(http.MethodGet)
	r.HandleFunc("/students/{id}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/students/{id}", s.handleDelete).Methods(http.MethodDelete)

	r.HandleFunc("/admin/table", s.handleDescribeTable).Methods(http.MethodGet)
	r.HandleFunc("/admin/tables", s.handleListTables).Methods(http.MethodGet)

	return r
}

// Start abre o listener HTTP na porta configurada (bloqueante).
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info().Msgf("Servidor HTTP ouvindo em %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in students.CreateStudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}

	student, err := s.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.events.Publish(r.Context(), "created", student.ID)
	writeJSON(w, http.StatusCreated, student)
}

func (s *Server) handleGetAll(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	student, err := s.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in students.UpdateStudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}

	student, err := s.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}

	s.events.Publish(r.Context(), "updated", id)
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deletedID, err := s.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.events.Publish(r.Context(), "deleted", deletedID)
	writeJSON(w, http.StatusOK, map[string]string{"id": deletedID})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSearchByAddress(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.SearchByAddress(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSearchByEmailDomain(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.SearchByEmailDomain(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDescribeTable(w http.ResponseWriter, r *http.Request) {
	info, err := s.tables.Describe(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	names, err := s.tables.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tables": names})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
