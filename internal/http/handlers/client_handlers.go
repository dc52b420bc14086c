package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

// CreateClientHandler godoc
// @Summary Register a new client
// @Tags clients
// @Accept json
// @Produce json
// @Param client body ClientRequest true "Client to add"
// @Success 201 {object} models.Client
// @Failure 400 {object} map[string]string
// @Failure 500 {string} string "Internal error"
// @Router /clients [post]
// @Security BearerAuth
func CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateClient(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	now := time.Now().Format(time.RFC3339)
	client := models.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := clientRepo.Create(client)
	if err != nil {
		http.Error(w, "could not create client", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetClientsHandler godoc
// @Summary List clients
// @Tags clients
// @Produce json
// @Param name query string false "Filter by name (substring match)"
// @Success 200 {array} models.Client
// @Failure 500 {string} string "Internal error"
// @Router /clients [get]
// @Security BearerAuth
func GetClientsHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := clientRepo.GetAll()
	if err != nil {
		http.Error(w, "could not fetch clients", http.StatusInternalServerError)
		return
	}

	if name := r.URL.Query().Get("name"); name != "" {
		filtered := clients[:0]
		for _, c := range clients {
			if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
				filtered = append(filtered, c)
			}
		}
		clients = filtered
	}

	writeJSON(w, http.StatusOK, clients)
}

// GetClientByIDHandler godoc
// @Summary Get client by ID
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.Client
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /clients/{id} [get]
// @Security BearerAuth
func GetClientByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid client ID", http.StatusBadRequest)
		return
	}

	client, err := clientRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrClientNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// UpdateClientHandler godoc
// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param client body ClientRequest true "Updated client"
// @Success 200 {object} models.Client
// @Failure 400 {object} map[string]any
// @Failure 404 {string} string "Not found"
// @Router /clients/{id} [put]
// @Security BearerAuth
func UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid client ID", http.StatusBadRequest)
		return
	}

	var req ClientRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateClient(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	client := models.Client{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		UpdatedAt: time.Now().Format(time.RFC3339),
	}
	updated, err := clientRepo.Update(client)
	if err != nil {
		if errors.Is(err, repo.ErrClientNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteClientHandler godoc
// @Summary Deactivate a client
// @Description Clients are soft-deleted so past purchases stay attributable
// @Tags clients
// @Param id path int true "Client ID"
// @Success 204 "Deactivated successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /clients/{id} [delete]
// @Security BearerAuth
func DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid client ID", http.StatusBadRequest)
		return
	}
	if err := clientRepo.Deactivate(id); err != nil {
		if errors.Is(err, repo.ErrClientNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not deactivate client", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetClientPurchasesHandler godoc
// @Summary List all purchases made by a client
// @Tags purchases
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {array} models.Purchase
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Client not found"
// @Router /clients/{id}/purchases [get]
// @Security BearerAuth
func GetClientPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid client ID", http.StatusBadRequest)
		return
	}

	if _, err := clientRepo.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrClientNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch client", http.StatusInternalServerError)
		return
	}

	purchases, err := purchaseRepo.GetByClientID(id)
	if err != nil {
		http.Error(w, "could not fetch purchases", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}
