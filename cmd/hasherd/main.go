// sha256hw: memory-mapped SHA-256 accelerator simulator
// Copyright (C) 2026  Guillermo Perry
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Command hasherd exposes the accelerator over a small HTTP API, playing
// the role the teacher project gives its grpc-based hasher-server
// (internal/driver/device/server.go): a network-reachable front end to a
// single Device instance. It uses gin instead of grpc/protobuf because the
// generated protobuf bindings that surface needs cannot be produced
// without running protoc (see DESIGN.md).
package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"sha256hw/internal/config"
	"sha256hw/internal/device"
	"sha256hw/internal/host"
	"sha256hw/internal/regs"
)

type server struct {
	dev     *device.Device
	session *host.Session
	guard   sync.Mutex
}

func newServer() (*server, error) {
	dev := device.New()
	guard := sync.Mutex{}
	session, err := host.OpenGuarded(dev, &guard)
	if err != nil {
		return nil, err
	}
	return &server{dev: dev, session: session}, nil
}

func (s *server) close() error {
	s.session.Close()
	return s.dev.Close()
}

type inputRequest struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status uint32 `json:"status"`
}

type idResponse struct {
	ID string `json:"id"`
}

type digestResponse struct {
	Digest string `json:"digest"`
}

func (s *server) getID(c *gin.Context) {
	s.session.Lock()
	defer s.session.Unlock()

	id, err := s.session.Control(regs.GetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, idResponse{ID: fmt.Sprintf("%#x", id)})
}

func (s *server) getStatus(c *gin.Context) {
	s.session.Lock()
	defer s.session.Unlock()

	status, err := s.session.Control(regs.GetStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: status})
}

// postInput replaces the input window's contents with the request body and
// triggers the hash in one atomic sequence, guarded so concurrent HTTP
// requests cannot interleave their write → START_HASH steps (spec section
// 5's recommendation for multi-session safety).
func (s *server) postInput(c *gin.Context) {
	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.session.Lock()
	defer s.session.Unlock()

	if _, err := s.session.Control(regs.Reset); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if _, err := s.session.Write([]byte(req.Message)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := s.session.Control(regs.StartHash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	digest := make([]byte, regs.OutputSize)
	if _, err := s.session.Read(digest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, digestResponse{Digest: hex.EncodeToString(digest)})
}

func (s *server) postReset(c *gin.Context) {
	s.session.Lock()
	defer s.session.Unlock()

	if _, err := s.session.Control(regs.Reset); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

func (s *server) router() *gin.Engine {
	r := gin.Default()
	r.GET("/id", s.getID)
	r.GET("/status", s.getStatus)
	r.POST("/input", s.postInput)
	r.POST("/reset", s.postReset)
	return r
}

func main() {
	cfg, err := config.LoadHostConfig()
	if err != nil {
		log.Fatalf("hasherd: load config: %v", err)
	}

	srv, err := newServer()
	if err != nil {
		log.Fatalf("hasherd: open device: %v", err)
	}
	defer srv.close()

	log.Printf("hasherd: listening on %s", cfg.ListenAddr)
	if err := srv.router().Run(cfg.ListenAddr); err != nil {
		log.Fatalf("hasherd: %v", err)
	}
}
