package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"latribu-backend/internal/middleware"
	"latribu-backend/internal/services/booking"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// Настройка для обновления WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем подключения с любых источников
	},
}

// Manager управляет сессиями бронирования
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
}

// Client одно WebSocket соединение со своим сценарием бронирования
type Client struct {
	id        string
	userID    uint
	conn      *websocket.Conn
	send      chan []byte
	flow      *booking.Flow
	closeOnce sync.Once

	sendMu sync.Mutex
	closed bool
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

// Start запускает обработку регистрации клиентов
func (m *Manager) Start() {
	log.Printf("[ws] запуск менеджера сессий")
	go func() {
		for {
			select {
			case client := <-m.register:
				m.mutex.Lock()
				m.clients[client.id] = client
				m.mutex.Unlock()
				middleware.WebSocketSessions.Inc()
				log.Printf("[ws] сессия %s открыта (userID=%d)", client.id, client.userID)

			case client := <-m.unregister:
				m.mutex.Lock()
				_, ok := m.clients[client.id]
				delete(m.clients, client.id)
				m.mutex.Unlock()
				if ok {
					middleware.WebSocketSessions.Dec()
					log.Printf("[ws] сессия %s закрыта", client.id)
				}
				client.close()

			case <-m.stop:
				m.mutex.Lock()
				for id, client := range m.clients {
					client.close()
					delete(m.clients, id)
					middleware.WebSocketSessions.Dec()
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Stop закрывает все сессии
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Count количество открытых сессий
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// Handler обрабатывает подключения к /ws
func Handler(m *Manager, deps booking.Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !websocket.IsWebSocketUpgrade(c.Request) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Se requiere una conexión WebSocket"})
			return
		}

		var userID uint
		if v, exists := c.Get("user_id"); exists {
			userID, _ = v.(uint)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ws] ошибка обновления соединения до WebSocket: %v", err)
			return
		}

		client := &Client{
			id:     uuid.NewString(),
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, sendBuffer),
		}
		client.flow = booking.NewFlow(context.Background(), deps, userID > 0, client.enqueue)

		select {
		case m.register <- client:
		case <-m.stop:
			client.close()
			return
		}

		go client.writePump()
		go client.readPump(m)
	}
}

func (c *Client) enqueue(msg booking.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[ws] ошибка при кодировании сообщения %s: %v", msg.Type, err)
		return
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	// сессия могла завершиться, пока шел фоновый запрос
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[ws] буфер сессии %s переполнен, сообщение %s отброшено", c.id, msg.Type)
	}
}

func (c *Client) readPump(m *Manager) {
	defer func() {
		select {
		case m.unregister <- c:
		case <-m.stop:
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] ошибка при чтении сообщения от клиента %s: %v", c.id, err)
			}
			return
		}

		var cmd booking.Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			log.Printf("[ws] ошибка при разборе JSON от клиента %s: %v", c.id, err)
			c.enqueue(booking.Message{Type: booking.TypeError, Payload: booking.ErrorPayload{Message: "Mensaje inválido"}})
			continue
		}
		c.flow.Handle(cmd)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[ws] ошибка при отправке сообщения клиенту %s: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.flow.Close()
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
	})
}
