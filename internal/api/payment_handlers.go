package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/auth"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/payment"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/store"
)

func (s *Server) handlePlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": payment.Plans})
}

func paidPlan(planID string) (payment.Plan, bool) {
	plan, ok := payment.Plans[planID]
	if !ok || plan.Price == 0 {
		return payment.Plan{}, false
	}
	return plan, true
}

func orderStatus(err error) int {
	if errors.Is(err, payment.ErrNotConfigured) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type createOrderRequest struct {
	Plan string `json:"plan"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	req := createOrderRequest{Plan: "pro"}
	_ = c.ShouldBindJSON(&req)

	plan, ok := paidPlan(req.Plan)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan selected"})
		return
	}

	username := auth.Identity(c)
	order, err := s.payments.CreateOrder(c.Request.Context(), plan.Price, "INR",
		fmt.Sprintf("order_%s_%s", username, req.Plan),
		map[string]string{"plan": req.Plan, "username": username})
	if err != nil {
		c.JSON(orderStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   s.payments.KeyID(),
		"plan":     plan,
	})
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Plan      string `json:"plan"`
}

func (s *Server) handleVerifyPayment(c *gin.Context) {
	req := verifyPaymentRequest{Plan: "pro"}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment details"})
		return
	}

	if !s.payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
		return
	}

	plan, ok := payment.Plans[req.Plan]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan selected"})
		return
	}

	username := auth.Identity(c)
	ctx := c.Request.Context()
	if err := s.store.AddPayment(ctx, store.Payment{
		Username:  username,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Amount:    plan.Price,
		Plan:      req.Plan,
		Status:    "success",
	}); err != nil {
		s.logger.Error("record payment", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	if err := s.store.UpdateSubscription(ctx, username, req.Plan, "active"); err != nil {
		s.logger.Error("activate subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Payment successful! %s plan activated.", plan.Name),
		"plan":    req.Plan,
	})
}

func (s *Server) handleSubscriptionStatus(c *gin.Context) {
	user, err := s.store.GetUser(c.Request.Context(), auth.Identity(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": user.Plan, "status": user.PlanStatus})
}

type guestOrderRequest struct {
	Plan  string `json:"plan"`
	Email string `json:"email"`
}

func (s *Server) handleCreateGuestOrder(c *gin.Context) {
	req := guestOrderRequest{Plan: "pro", Email: "guest"}
	_ = c.ShouldBindJSON(&req)
	if req.Email == "" {
		req.Email = "guest"
	}

	plan, ok := paidPlan(req.Plan)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan selected"})
		return
	}

	order, err := s.payments.CreateOrder(c.Request.Context(), plan.Price, "INR",
		fmt.Sprintf("guest_%s_%s_%d", req.Email, req.Plan, time.Now().Unix()),
		map[string]string{"plan": req.Plan, "email": req.Email, "type": "registration"})
	if err != nil {
		s.logger.Warn("guest order creation failed", "error", err)
		c.JSON(orderStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   s.payments.KeyID(),
		"plan":     plan,
	})
}

type registerWithPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Plan      string `json:"plan"`
	UserData  struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Country  string `json:"country"`
	} `json:"user_data"`
}

func (s *Server) handleRegisterWithPayment(c *gin.Context) {
	req := registerWithPaymentRequest{Plan: "pro"}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment details"})
		return
	}
	u := req.UserData
	if u.Email == "" || u.Password == "" || u.Name == "" || u.Phone == "" || u.Country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user registration details"})
		return
	}

	if !s.payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
		return
	}

	plan, ok := payment.Plans[req.Plan]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan selected"})
		return
	}

	ctx := c.Request.Context()
	err := s.store.CreateUser(ctx, store.NewUser{
		Username:   u.Email,
		Password:   u.Password,
		Name:       u.Name,
		Phone:      u.Phone,
		Country:    u.Country,
		Plan:       req.Plan,
		PlanStatus: "active",
	})
	if errors.Is(err, store.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}
	if err != nil {
		s.logger.Error("register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	if err := s.store.AddPayment(ctx, store.Payment{
		Username:  u.Email,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Amount:    plan.Price,
		Plan:      req.Plan,
		Status:    "success",
	}); err != nil {
		s.logger.Error("record payment", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Payment successful! Account created with %s plan.", plan.Name),
		"plan":    req.Plan,
	})
}
