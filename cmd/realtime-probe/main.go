// Package main is a load probe for realtime push. Listener connections
// subscribe over the websocket while a sender posts direct messages to the
// listener; every push received is counted.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Metrics tracks the test results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	MessagesSent         int64
	EventsReceived       int64
	Errors               int64
}

var metrics Metrics

type session struct {
	userID uint
	token  string
}

type event struct {
	Type string `json:"type"`
}

func main() {
	host := flag.String("host", "localhost:5000", "API server host")
	listener := flag.String("listener", "demo", "Username that receives pushes")
	sender := flag.String("sender", "coach", "Username that sends messages")
	password := flag.String("password", "password123", "Password of both users")
	clients := flag.Int("clients", 20, "Number of concurrent listener connections")
	interval := flag.Duration("interval", 3*time.Second, "Delay between sent messages")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	flag.Parse()

	log.Printf("🚀 Starting realtime probe")
	log.Printf("Target: %s", *host)
	log.Printf("Clients: %d", *clients)
	log.Printf("Duration: %v", *duration)

	to, err := login(*host, *listener, *password)
	if err != nil {
		log.Fatalf("❌ Listener login failed: %v", err)
	}
	from, err := login(*host, *sender, *password)
	if err != nil {
		log.Fatalf("❌ Sender login failed: %v", err)
	}
	log.Printf("✅ Logged in as %s and %s", *listener, *sender)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stopChan := make(chan struct{})

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runListener(*host, to.token, stopChan, &wg)
		time.Sleep(50 * time.Millisecond) // Stagger connections to allow ticket issuance
	}

	wg.Add(1)
	go runSender(*host, from.token, to.userID, *interval, stopChan, &wg)

	// Wait for duration or interrupt
	select {
	case <-time.After(*duration):
		log.Println("⏱️  Test duration reached")
	case <-interrupt:
		log.Println("🛑 Interrupted by user")
	}

	close(stopChan)
	log.Println("Waiting for clients to disconnect...")
	wg.Wait()

	printMetrics()
}

func postJSON(rawURL, token string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	return client.Do(req)
}

func login(host, username, password string) (session, error) {
	resp, err := postJSON(fmt.Sprintf("http://%s/api/users/login", host), "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return session{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return session{}, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var user struct {
		ID uint `json:"_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return session{}, err
	}

	for _, c := range resp.Cookies() {
		if c.Name == "jwt" {
			return session{userID: user.ID, token: c.Value}, nil
		}
	}
	return session{}, fmt.Errorf("login response carried no session cookie")
}

func getTicket(host, token string) (string, error) {
	resp, err := postJSON(fmt.Sprintf("http://%s/api/ws/ticket", host), token, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ticket issuance failed with status %d", resp.StatusCode)
	}

	var result struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Ticket, nil
}

func runListener(host, token string, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	atomic.AddInt64(&metrics.ConnectionsAttempted, 1)

	// Get a fresh ticket for this connection
	ticket, err := getTicket(host, token)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}

	u := url.URL{Scheme: "ws", Host: host, Path: "/api/ws", RawQuery: "ticket=" + url.QueryEscape(ticket)}

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()

	atomic.AddInt64(&metrics.ConnectionsSuccess, 1)

	go func() {
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				return
			}
			var ev event
			if json.Unmarshal(raw, &ev) == nil && ev.Type != "" {
				atomic.AddInt64(&metrics.EventsReceived, 1)
			}
		}
	}()

	<-stopChan
	_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func runSender(host, token string, recipientID uint, interval time.Duration, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			resp, err := postJSON(fmt.Sprintf("http://%s/api/messages", host), token, map[string]any{
				"recipientId": recipientID,
				"message":     fmt.Sprintf("Probe message %d", n),
			})
			if err != nil {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			atomic.AddInt64(&metrics.MessagesSent, 1)
		}
	}
}

func printMetrics() {
	sent := atomic.LoadInt64(&metrics.MessagesSent)
	connected := atomic.LoadInt64(&metrics.ConnectionsSuccess)

	log.Println("\n📊 Test Results")
	log.Println("===============")
	log.Printf("Connections Attempted: %d", atomic.LoadInt64(&metrics.ConnectionsAttempted))
	log.Printf("Connections Successful: %d", connected)
	log.Printf("Connections Failed: %d", atomic.LoadInt64(&metrics.ConnectionsFailed))
	log.Printf("Messages Sent: %d", sent)
	log.Printf("Events Received: %d (expected up to %d)", atomic.LoadInt64(&metrics.EventsReceived), sent*connected)
	log.Printf("Total Errors: %d", atomic.LoadInt64(&metrics.Errors))
}
