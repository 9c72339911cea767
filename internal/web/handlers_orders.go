package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// handleHistory — история заказов покупателя, разложенная по секциям.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	history, err := s.orders.History(r.Context(), sess.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleAdminOrders — все заказы платформы с позициями.
func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	result, err := s.orders.AllWithItems(r.Context(), sess.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// handleOrderStatus продвигает статус заказа. Текущий статус берётся
// из свежей выборки, а не из запроса: переход валидируется от того,
// что есть на самом деле.
func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	orderID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	order, err := s.orders.Find(r.Context(), sess.Token, orderID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.orders.Transition(r.Context(), sess.Token, order, req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order status updated."})
}

// handleCustomerExport выгружает PDF собственного заказа покупателя.
func (s *Server) handleCustomerExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	orderID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	history, err := s.orders.History(r.Context(), sess.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}

	order, ok := findOrder(orderID,
		history.Pending, history.Approved, history.Delivered, history.Rejected)
	if !ok {
		s.writeError(w, domain.ErrOrderNotFound)
		return
	}

	s.servePDF(w, order, sess.Identity.Name)
}

// handleAdminExport выгружает PDF любого заказа; позиции дозагружаются,
// имя покупателя ищется в списке учётных записей.
func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	orderID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	order, err := s.orders.FindWithItems(r.Context(), sess.Token, orderID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := order.UserID
	if accounts, err := s.gateway.ListCustomers(r.Context(), sess.Token); err == nil {
		for _, account := range accounts {
			if account.UserID == order.UserID {
				name = account.Name
				break
			}
		}
	}

	s.servePDF(w, order, name)
}

func (s *Server) servePDF(w http.ResponseWriter, order domain.Order, customerName string) {
	fileName, pdf, err := s.exporter.Export(order, customerName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func findOrder(orderID int64, groups ...[]domain.Order) (domain.Order, bool) {
	for _, group := range groups {
		for _, order := range group {
			if order.OrderID == orderID {
				return order, true
			}
		}
	}
	return domain.Order{}, false
}
