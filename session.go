package main

import (
	"fmt"
	"log"
	"math/rand"
)

// Session ties a planning config to the grids it loaded and the planner running on them
type Session struct {
	Config    Config
	Obstacles ObstacleGrid
	Costs     CostGrid
	Planner   *Planner
}

// NewSession loads the maps named by cfg and initialises a planner on them
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	obstacles, err := LoadObstacleMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("session: obstacle map: %w", err)
	}

	var costs CostGrid
	if !cfg.MinDistEnabled {
		costs, err = LoadCostImage(cfg.ObjectiveFile)
		if err != nil {
			return nil, fmt.Errorf("session: cost distribution: %w", err)
		}
	}

	opts := []Option{
		WithTheta(cfg.Theta),
		WithMaxResampleAttempts(cfg.MaxResampleAttempts),
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}

	planner, err := NewPlanner(obstacles.Width(), obstacles.Height(), cfg.SegmentLength, opts...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := planner.LoadMap(obstacles); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		Config:    cfg,
		Obstacles: obstacles,
		Costs:     costs,
		Planner:   planner,
	}
	if err := s.Reset(nil, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset re-initialises the planner, optionally moving the start and goal
func (s *Session) Reset(start, goal *Position) error {
	from, to := s.Config.Start, s.Config.Goal
	if start != nil {
		from = *start
	}
	if goal != nil {
		to = *goal
	}

	_, err := s.Planner.Init(from, to, SelectCostFunc(s.Config.MinDistEnabled), s.Costs)
	if err != nil {
		return fmt.Errorf("session: init: %w", err)
	}
	s.Config.Start, s.Config.Goal = from, to
	return nil
}

// Run grows the tree for the configured iteration budget and returns the best path
func (s *Session) Run() (Path, error) {
	p := s.Planner
	log.Printf("🌱 Growing tree: segment length %.2f, %d iterations\n", s.Config.SegmentLength, s.Config.MaxIterationNum)

	for p.Iteration() <= s.Config.MaxIterationNum {
		if err := p.Extend(); err != nil {
			return Path{}, fmt.Errorf("session: extend at iteration %d: %w", p.Iteration(), err)
		}
		if p.Iteration()%100 == 0 {
			log.Printf("   Progress: %d iterations, %d nodes, radius %.3f\n", p.Iteration(), p.NodeCount(), p.BallRadius())
		}
	}

	path := p.FindPath()
	if path.Found() {
		log.Printf("✅ Path found with %d waypoints, cost %.4f\n", len(path.Waypoints), path.Cost)
	} else {
		log.Println("❌ No path found yet")
	}
	return path, nil
}
