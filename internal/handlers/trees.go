package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/arbor-dev/arbor/db"
	"github.com/arbor-dev/arbor/internal/models"
	"github.com/arbor-dev/arbor/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultTreeTitle = "Моё семейное древо"

var errTreeNotFound = errors.New("tree not found or access denied")

type NodeInput struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	MiddleName     string  `json:"middleName"`
	MaidenName     string  `json:"maidenName"`
	Gender         string  `json:"gender"`
	BirthDate      string  `json:"birthDate"`
	BirthPlace     string  `json:"birthPlace"`
	DeathDate      string  `json:"deathDate"`
	DeathPlace     string  `json:"deathPlace"`
	IsAlive        *bool   `json:"isAlive"`
	Occupation     string  `json:"occupation"`
	Bio            string  `json:"bio"`
	HistoryContext string  `json:"historyContext"`
}

type EdgeInput struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

type SaveTreeRequest struct {
	UserEmail   string      `json:"user_email"`
	TreeID      uint        `json:"tree_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Nodes       []NodeInput `json:"nodes"`
	Edges       []EdgeInput `json:"edges"`
}

func userEmail(ctx *gin.Context) string {
	if email := ctx.Query("user_email"); email != "" {
		return email
	}
	return ctx.GetHeader("X-User-Email")
}

type treeSummaryRow struct {
	ID           uint
	Title        string
	Description  string
	PersonsCount int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListTrees returns summary metadata for every tree owned by the user,
// most recently updated first. An unknown user yields an empty list.
func ListTrees(ctx *gin.Context) {
	email := userEmail(ctx)

	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_email is required"})
		return
	}

	countSubquery := db.DB.Model(&models.Person{}).
		Select("COUNT(*)").
		Where("persons.tree_id = trees.id")

	var rows []treeSummaryRow

	err := db.DB.Model(&models.Tree{}).
		Select("trees.id, trees.title, trees.description, trees.created_at, trees.updated_at, (?) AS persons_count", countSubquery).
		Joins("JOIN users ON users.id = trees.user_id").
		Where("users.email = ?", email).
		Order("trees.updated_at DESC").
		Scan(&rows).Error

	if err != nil {
		log.Printf("Failed to list trees: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	trees := make([]types.TreeSummary, 0, len(rows))

	for _, row := range rows {
		trees = append(trees, types.TreeSummary{
			ID:           row.ID,
			Title:        row.Title,
			Description:  row.Description,
			PersonsCount: row.PersonsCount,
			CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:    row.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	ctx.JSON(http.StatusOK, types.TreeListResponse{
		Trees: trees,
		Count: len(trees),
	})
}

// LoadTree returns one tree as a node/edge graph. When user_email is
// supplied the tree must belong to that user; missing and not-owned are
// deliberately the same 404. Without an email any tree id is loadable.
func LoadTree(ctx *gin.Context) {
	treeID := ctx.Query("tree_id")

	if treeID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "tree_id is required"})
		return
	}

	email := userEmail(ctx)

	query := db.DB.Model(&models.Tree{})

	if email != "" {
		query = query.
			Joins("JOIN users ON users.id = trees.user_id").
			Where("trees.id = ? AND users.email = ?", treeID, email)
	} else {
		query = query.Where("trees.id = ?", treeID)
	}

	var tree models.Tree

	if err := query.First(&tree).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Tree not found or access denied"})
			return
		}
		log.Printf("Failed to load tree %s: %v", treeID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var persons []models.Person

	if err := db.DB.Where("tree_id = ?", tree.ID).Order("id").Find(&persons).Error; err != nil {
		log.Printf("Failed to load persons for tree %d: %v", tree.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var relationships []models.Relationship

	if err := db.DB.Where("tree_id = ?", tree.ID).Find(&relationships).Error; err != nil {
		log.Printf("Failed to load relationships for tree %d: %v", tree.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	nodes := make([]types.Node, 0, len(persons))

	for _, person := range persons {
		gender := person.Gender

		if gender == "" {
			gender = "male"
		}

		nodes = append(nodes, types.Node{
			ID:             strconv.FormatUint(uint64(person.ID), 10),
			X:              person.PositionX,
			Y:              person.PositionY,
			FirstName:      person.FirstName,
			LastName:       person.LastName,
			MiddleName:     person.MiddleName,
			MaidenName:     person.MaidenName,
			Gender:         gender,
			BirthDate:      person.BirthDate,
			BirthPlace:     person.BirthPlace,
			DeathDate:      person.DeathDate,
			DeathPlace:     person.DeathPlace,
			IsAlive:        person.IsAlive,
			Occupation:     person.Occupation,
			Bio:            person.Bio,
			HistoryContext: person.HistoryContext,
		})
	}

	edges := make([]types.Edge, 0, len(relationships))

	for _, rel := range relationships {
		edge := types.Edge{
			ID:     "e-" + strconv.FormatUint(uint64(rel.ID), 10),
			Source: strconv.FormatUint(uint64(rel.SourcePersonID), 10),
			Target: strconv.FormatUint(uint64(rel.TargetPersonID), 10),
		}

		if rel.RelationshipType == models.RelationshipSpouse {
			edge.Type = models.RelationshipSpouse
		}

		edges = append(edges, edge)
	}

	ctx.JSON(http.StatusOK, types.TreeLoadResponse{
		TreeID:      tree.ID,
		Title:       tree.Title,
		Description: tree.Description,
		Nodes:       nodes,
		Edges:       edges,
		CreatedAt:   tree.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   tree.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// SaveTree fully replaces a tree's persons and relationships in one
// transaction. Person ids are regenerated on every save; the client-id
// map is built from each insert's returned id.
func SaveTree(ctx *gin.Context) {
	var req SaveTreeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	email := req.UserEmail

	if email == "" {
		email = ctx.GetHeader("X-User-Email")
	}

	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_email is required"})
		return
	}

	title := req.Title

	if title == "" {
		title = defaultTreeTitle
	}

	var savedTreeID uint

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User

		if err := tx.Where(models.User{Email: email}).FirstOrCreate(&user).Error; err != nil {
			return err
		}

		if req.TreeID != 0 {
			var tree models.Tree

			err := tx.Where("id = ? AND user_id = ?", req.TreeID, user.ID).First(&tree).Error

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTreeNotFound
			}

			if err != nil {
				return err
			}

			updates := map[string]interface{}{
				"title":       title,
				"description": req.Description,
			}

			if err := tx.Model(&tree).Updates(updates).Error; err != nil {
				return err
			}

			savedTreeID = tree.ID
		} else {
			tree := models.Tree{
				UserID:      user.ID,
				Title:       title,
				Description: req.Description,
			}

			if err := tx.Create(&tree).Error; err != nil {
				return err
			}

			savedTreeID = tree.ID
		}

		if err := tx.Unscoped().Where("tree_id = ?", savedTreeID).Delete(&models.Person{}).Error; err != nil {
			return err
		}

		idMap := make(map[string]uint, len(req.Nodes))

		for _, node := range req.Nodes {
			isAlive := true

			if node.IsAlive != nil {
				isAlive = *node.IsAlive
			}

			person := models.Person{
				TreeID:         savedTreeID,
				FirstName:      node.FirstName,
				LastName:       node.LastName,
				MiddleName:     node.MiddleName,
				MaidenName:     node.MaidenName,
				Gender:         node.Gender,
				BirthDate:      node.BirthDate,
				BirthPlace:     node.BirthPlace,
				DeathDate:      node.DeathDate,
				DeathPlace:     node.DeathPlace,
				IsAlive:        isAlive,
				Occupation:     node.Occupation,
				Bio:            node.Bio,
				HistoryContext: node.HistoryContext,
				PositionX:      node.X,
				PositionY:      node.Y,
			}

			if err := tx.Create(&person).Error; err != nil {
				return err
			}

			idMap[node.ID] = person.ID
		}

		if err := tx.Unscoped().Where("tree_id = ?", savedTreeID).Delete(&models.Relationship{}).Error; err != nil {
			return err
		}

		for _, edge := range req.Edges {
			sourceID := idMap[edge.Source]
			targetID := idMap[edge.Target]

			// Edges pointing at unknown nodes are dropped, not errored.
			if sourceID == 0 || targetID == 0 {
				continue
			}

			relType := models.RelationshipParent

			if edge.Type == models.RelationshipSpouse {
				relType = models.RelationshipSpouse
			}

			rel := models.Relationship{
				TreeID:           savedTreeID,
				SourcePersonID:   sourceID,
				TargetPersonID:   targetID,
				RelationshipType: relType,
			}

			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rel).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, errTreeNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Tree not found or access denied"})
			return
		}
		log.Printf("Failed to save tree: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.TreeSaveResponse{
		TreeID:     savedTreeID,
		Message:    "Tree saved successfully",
		NodesCount: len(req.Nodes),
		EdgesCount: len(req.Edges),
	})
}
