// Package sse pushes reload notices to open browser tabs.
package sse

import (
	"sync"
)

// Topic groups clients that care about the same events.
type Topic string

const (
	TopicSite  Topic = "site"
	TopicAdmin Topic = "admin"
)

type Client struct {
	Msg   chan string
	Topic Topic
}

func NewClient(topic Topic) *Client {
	return &Client{Msg: make(chan string, 1), Topic: topic}
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

// Broadcast never blocks; a client that has not drained its last message misses this one.
func (s *SSEClients) Broadcast(topic Topic, msg string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sent := 0
	for client := range s.clients {
		if client.Topic == topic {
			select {
			case client.Msg <- msg:
				sent++
			default:
			}
		}
	}
	return sent
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
