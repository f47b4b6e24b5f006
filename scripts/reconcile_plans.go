// Manual plan status reconciliation.
//
// Completion normally happens inside the topic completion transaction. After
// a bulk import or a restored backup the plan rows can lag behind the
// progress rows; this script recomputes them.
//
// Usage: go run scripts/reconcile_plans.go
package main

import (
	"log"

	"kumba_backend/internal/config"
	"kumba_backend/internal/model"
	"kumba_backend/pkg/database"
	"kumba_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var plans []model.LearningPlan
	if err := db.Where("status = ?", model.PlanActive).Find(&plans).Error; err != nil {
		log.Fatalf("failed to list active plans: %v", err)
	}

	reconciled := 0
	for _, plan := range plans {
		var totalTopics int64
		if err := db.Model(&model.Topic{}).Where("plan_id = ?", plan.ID).Count(&totalTopics).Error; err != nil {
			log.Fatalf("failed to count topics for plan %s: %v", plan.ID, err)
		}
		if totalTopics == 0 {
			continue
		}
		var completed int64
		err := db.Model(&model.LearningProgress{}).
			Where("user_id = ? AND plan_id = ? AND status = ?", plan.UserID, plan.ID, model.ProgressCompleted).
			Count(&completed).Error
		if err != nil {
			log.Fatalf("failed to count progress for plan %s: %v", plan.ID, err)
		}
		if completed < totalTopics {
			continue
		}
		if err := db.Model(&model.LearningPlan{}).Where("id = ?", plan.ID).
			Update("status", model.PlanCompleted).Error; err != nil {
			log.Fatalf("failed to update plan %s: %v", plan.ID, err)
		}
		reconciled++
	}

	log.Printf("done: %d of %d active plans marked completed", reconciled, len(plans))
}
