package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"shop-telegram/services"

	"github.com/gin-gonic/gin"
)

type cartRequest struct {
	InitData string         `json:"initData"`
	Cart     map[string]int `json:"cart"`
}

type authRequest struct {
	InitData string `json:"initData"`
}

const (
	textOrderPlacedPrompt = "Buyurtmangizni tasdiqlash uchun iltimos, ism-familiyangizni kiriting.\n<i>Misol: Burxon Nurmurodov</i>"
	textWebOrderCanceled  = "Buyurtmangiz bekor qilindi. Yangi buyurtma berish uchun davom eting."
)

// handleCartUpdate reconciles the user's persisted cart rows with the
// client snapshot.
func (s *Server) handleCartUpdate(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Invalid JSON"})
		return
	}
	userID, ok := s.userID(c, req.InitData)
	if !ok {
		return
	}

	unlock := services.LockUser(userID)
	defer unlock()

	if err := services.SyncCart(c.Request.Context(), userID, req.Cart); err != nil {
		if errors.Is(err, services.ErrMalformedCartKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": err.Error()})
			return
		}
		log.Printf("sync cart for %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Cart sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart synchronized."})
}

// handlePlaceOrder opens an order from the client cart, previews it to the
// user through the bot, clears the cart rows and starts the checkout
// progression by prompting for a name.
func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Invalid JSON"})
		return
	}
	userID, ok := s.userID(c, req.InitData)
	if !ok {
		return
	}
	if len(req.Cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Cart is empty"})
		return
	}

	unlock := services.LockUser(userID)
	defer unlock()

	ctx := c.Request.Context()

	// Price the cart before touching storage; malformed keys and carts
	// with nothing purchasable never become orders.
	sum, err := services.SummarizeItems(req.Cart, services.CatalogLookup(ctx))
	if errors.Is(err, services.ErrMalformedOrder) || errors.Is(err, services.ErrEmptyOrder) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Cart is not orderable"})
		return
	}
	if err != nil {
		log.Printf("summarize cart for %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Order placement failed"})
		return
	}

	if _, err := services.CreateOrder(ctx, userID, req.Cart); err != nil {
		if errors.Is(err, services.ErrIncompleteOrderExists) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "detail": "You have an incomplete order."})
			return
		}
		log.Printf("create order for %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Order placement failed"})
		return
	}
	if err := services.ClearCart(ctx, userID); err != nil {
		log.Printf("clear cart for %d: %v", userID, err)
	}

	s.bot.SendHTML(userID, sum.UserText())
	s.bot.SendHTML(userID, textOrderPlacedPrompt)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order placed successfully."})
}

// handleCancelIncompleteOrder drops the user's incomplete order, if any.
func (s *Server) handleCancelIncompleteOrder(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Invalid JSON"})
		return
	}
	userID, ok := s.userID(c, req.InitData)
	if !ok {
		return
	}

	unlock := services.LockUser(userID)
	defer unlock()

	ctx := c.Request.Context()
	o, err := services.GetIncompleteOrder(ctx, userID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "detail": "No incomplete order found"})
		return
	}
	if err != nil {
		log.Printf("incomplete order for %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Lookup failed"})
		return
	}
	if _, err := services.DeleteOrder(ctx, o.ID); err != nil {
		log.Printf("delete order %d: %v", o.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Cancel failed"})
		return
	}

	s.bot.SendShopButton(userID, textWebOrderCanceled)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Incomplete order cancelled."})
}

// handleAuth bootstraps the web app: catalog plus the user's saved cart.
// An incomplete order blocks shopping until it is finished or cancelled.
func (s *Server) handleAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Invalid JSON"})
		return
	}
	userID, ok := s.userID(c, req.InitData)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := services.GetIncompleteOrder(ctx, userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "detail": "You have an incomplete order."})
		return
	} else if !errors.Is(err, services.ErrNotFound) {
		log.Printf("incomplete order for %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Lookup failed"})
		return
	}

	catalog, err := services.ListItems(ctx)
	if err != nil {
		log.Printf("list items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Catalog unavailable"})
		return
	}
	items := make(map[string]gin.H, len(catalog))
	for _, it := range catalog {
		items[strconv.FormatInt(it.ID, 10)] = gin.H{
			"id":          it.ID,
			"title":       it.Title,
			"price":       it.Price,
			"image":       it.Image,
			"sizes":       it.Sizes,
			"description": it.Description,
		}
	}

	cart, err := services.GetCartMap(ctx, userID)
	if err != nil {
		log.Printf("cart for %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "detail": "Cart unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": items, "cart_items": cart})
}

// handleCheckRole reports the caller's effective role for the admin UI.
func (s *Server) handleCheckRole(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Invalid JSON"})
		return
	}
	userID, ok := s.userID(c, req.InitData)
	if !ok {
		return
	}
	role := services.RoleFor(c.Request.Context(), userID, s.cfg.Telegram.SAdmin)
	c.JSON(http.StatusOK, gin.H{"success": true, "role": role})
}
