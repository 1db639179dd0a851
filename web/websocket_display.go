package web

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{} // use default options

// Boot implements Display.
func (server *Server) Boot() error {
	return nil
}

func (server *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	slog.Info("Connecting to display")
	server.setWs(conn)
	defer server.unsetWs()

	// push the current frame so the client does not stare at a blank
	// canvas until the next draw
	server.Render()

	// the read loop doubles as the keyboard feed: the client sends two
	// byte messages of physical key and state
	for {
		t, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Info("Disconnecting from display")
			server.ReleaseAll()
			return
		}
		if t != websocket.BinaryMessage || len(msg) != 2 {
			continue
		}

		if msg[1] != 0 {
			server.Press(rune(msg[0]))
		} else {
			server.Release(rune(msg[0]))
		}
	}
}

func (server *Server) setWs(conn *websocket.Conn) error {
	server.wsMutex.Lock()
	server.socket = conn
	defer server.wsMutex.Unlock()

	return nil
}

func (server *Server) unsetWs() error {
	server.wsMutex.Lock()
	server.socket = nil
	defer server.wsMutex.Unlock()

	return nil
}

// Render implements Display.
// Frames go out as binary messages of width, height and the composite
// pixels packed four per byte, highest pair first.
func (server *Server) Render() error {
	// exclusive, the websocket does not allow concurrent writers
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == nil {
		return nil
	}

	return server.socket.WriteMessage(websocket.BinaryMessage, server.encodeFrame())
}

func (server *Server) encodeFrame() []byte {
	w, h := server.Width(), server.Height()
	pixels := server.Snapshot()

	frame := make([]byte, 2, 2+(w*h+3)/4)
	frame[0] = byte(w)
	frame[1] = byte(h)

	var acc byte
	for i, p := range pixels {
		acc = acc<<2 | p&0b11
		if i%4 == 3 {
			frame = append(frame, acc)
			acc = 0
		}
	}
	if len(pixels)%4 != 0 {
		acc <<= 2 * (4 - len(pixels)%4)
		frame = append(frame, acc)
	}

	return frame
}
