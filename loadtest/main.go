package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	PairCount = 250 // ⚠️ Start small. Every receiver holds an open request the whole time.
	MsgCount  = 20  // Messages per pair
	Password  = "password123"
)

var (
	baseURL   = flag.String("url", "http://localhost:8080", "server base URL")
	sent      atomic.Int64
	delivered atomic.Int64
)

type userResponse struct {
	ID int `json:"id"`
}

type messageResponse struct {
	ID int `json:"id"`
}

func main() {
	flag.Parse()

	log.Printf("🔥 STARTING STRESS TEST: %d pairs, %d messages each...", PairCount, MsgCount)
	run := time.Now().Unix()
	start := time.Now()
	var wg sync.WaitGroup

	// Pair i: sender i_a messages receiver i_b. Even pairs long-poll, odd
	// pairs use the websocket stream.
	for i := 0; i < PairCount; i++ {
		wg.Add(1)
		go func(pairID int) {
			defer wg.Done()
			runPair(run, pairID)
		}(i)
	}

	wg.Wait()
	log.Printf("✅ LOAD TEST COMPLETE in %s: %d sent, %d delivered", time.Since(start).Round(time.Millisecond), sent.Load(), delivered.Load())
}

func runPair(run int64, pairID int) {
	tokenA, _ := authenticate(fmt.Sprintf("u_%d_%d_a@loadtest.local", run, pairID))
	tokenB, idB := authenticate(fmt.Sprintf("u_%d_%d_b@loadtest.local", run, pairID))
	if tokenA == "" || tokenB == "" {
		return
	}

	ready := make(chan struct{})
	var recvWg sync.WaitGroup
	recvWg.Add(1)
	go func() {
		defer recvWg.Done()
		if pairID%2 == 0 {
			receiveByPolling(tokenB, idB, ready)
		} else {
			receiveByStream(tokenB, idB, ready)
		}
	}()

	<-ready
	sendMessages(tokenA, idB)
	recvWg.Wait()
}

// authenticate registers the user and returns its Authorization header
// value and id.
func authenticate(email string) (string, int) {
	resp, err := postJSON("/user/register", "", map[string]string{"email": email, "fullName": email, "password": Password})
	if err != nil {
		log.Printf("❌ Register Failed [%s]: %v", email, err)
		return "", 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Register Failed [%s]: status %d", email, resp.StatusCode)
		return "", 0
	}

	var u userResponse
	json.NewDecoder(resp.Body).Decode(&u)
	return resp.Header.Get("Authorization"), u.ID
}

func sendMessages(token string, toID int) {
	for i := 0; i < MsgCount; i++ {
		resp, err := postJSON("/message/send", token, map[string]any{
			"toUserId": toID,
			"text":     fmt.Sprintf("LoadTest Msg %d", i),
		})
		if err != nil {
			log.Printf("❌ Send Fail [to %d]: %v", toID, err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			log.Printf("❌ Send Fail [to %d]: status %d", toID, resp.StatusCode)
			return
		}
		sent.Add(1)

		// Small sleep to prevent instant localhost bottleneck (simulate real network)
		time.Sleep(10 * time.Millisecond)
	}
}

// receiveByPolling long-polls, marking each batch read, until every message
// has arrived or a poll comes back empty.
func receiveByPolling(token string, userID int, ready chan struct{}) {
	close(ready)

	got := 0
	for got < MsgCount {
		req, _ := http.NewRequest("GET", fmt.Sprintf("%s/poll/%d", *baseURL, userID), nil)
		req.Header.Set("Authorization", token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Printf("❌ Poll Fail [%d]: %v", userID, err)
			return
		}
		var msgs []messageResponse
		json.NewDecoder(resp.Body).Decode(&msgs)
		resp.Body.Close()

		if len(msgs) == 0 {
			log.Printf("⚠️ Poll timed out [%d] after %d msgs", userID, got)
			return
		}

		got += len(msgs)
		delivered.Add(int64(len(msgs)))
		markRead(token, msgs[0].ID, msgs[len(msgs)-1].ID)
	}
}

func markRead(token string, fromID, toID int) {
	body, _ := json.Marshal(map[string]int{"fromId": fromID, "toId": toID})
	req, _ := http.NewRequest("PUT", *baseURL+"/message/mark-as-read", bytes.NewBuffer(body))
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("❌ Mark Read Fail: %v", err)
		return
	}
	resp.Body.Close()
}

func receiveByStream(token string, userID int, ready chan struct{}) {
	defer func() {
		// Unblock the sender even if the stream never came up.
		select {
		case <-ready:
		default:
			close(ready)
		}
	}()

	url := "ws" + strings.TrimPrefix(*baseURL, "http") + fmt.Sprintf("/poll/%d/stream", userID)
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {token}})
	if err != nil {
		log.Printf("❌ WS Connect Fail [%d]: %v", userID, err)
		return
	}
	defer conn.Close()
	close(ready)

	got := 0
	for got < MsgCount {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		var msgs []messageResponse
		if err := conn.ReadJSON(&msgs); err != nil {
			log.Printf("⚠️ Stream ended [%d] after %d msgs: %v", userID, got, err)
			return
		}
		got += len(msgs)
		delivered.Add(int64(len(msgs)))
	}
}

func postJSON(endpoint, token string, data any) (*http.Response, error) {
	jsonData, _ := json.Marshal(data)
	req, err := http.NewRequest("POST", *baseURL+endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return http.DefaultClient.Do(req)
}
