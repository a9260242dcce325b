package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var maxSubscribers int = 50
var measureFor time.Duration = 30 * time.Second
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	sessionName := "bench-" + uuid.NewString()
	payload, _ := json.Marshal(map[string]string{"name": sessionName})
	sessResp, err := http.Post(fmt.Sprintf("http://%s/sessions", httpHostPort), "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Fatal("Failed to start session:", err)
	}
	sessResp.Body.Close()

	var received atomic.Int64
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < maxSubscribers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			runSubscriber(i, &received, stop)
		}()
	}

	fmt.Printf("%v subscribers connected, starting scan\n", maxSubscribers)

	scanResp, err := http.Post(fmt.Sprintf("http://%s/scan/start", httpHostPort), "application/json", bytes.NewBufferString("{}"))
	if err != nil {
		log.Fatal("Failed to start scanning:", err)
	}
	scanResp.Body.Close()

	startTime := time.Now()
	time.Sleep(measureFor)
	close(stop)
	wg.Wait()
	usedTime := time.Since(startTime)

	stopResp, _ := http.Post(fmt.Sprintf("http://%s/scan/stop", httpHostPort), "application/json", nil)
	if stopResp != nil {
		stopResp.Body.Close()
	}

	total := received.Load()
	fmt.Printf(
		"received %v sensor-data events across %v subscribers: used time=%v seconds, throughput=%v events/second\n",
		total, maxSubscribers, usedTime.Seconds(), float64(total)/usedTime.Seconds(),
	)
}

func runSubscriber(id int, received *atomic.Int64, stop <-chan struct{}) {
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws", httpHostPort), nil)
	if err != nil {
		log.Printf("subscriber %v failed to connect: %v", id, err)
		return
	}
	defer conn.Close()

	subscribe, _ := json.Marshal(map[string]string{"type": "subscribe", "channel": "sensor-data"})
	if err := conn.WriteMessage(websocket.TextMessage, subscribe); err != nil {
		log.Printf("subscriber %v failed to subscribe: %v", id, err)
		return
	}

	heartbeat, _ := json.Marshal(map[string]string{"type": "heartbeat"})
	ticker := time.NewTicker(20*time.Second + time.Duration(rnd.Intn(5000))*time.Millisecond)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			received.Add(1)
		}
	}()

	for {
		select {
		case <-stop:
			return
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.TextMessage, heartbeat); err != nil {
				return
			}
		}
	}
}
