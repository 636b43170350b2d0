package cmd

import (
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "labelforge.com/labelforge/internal/configs"
	"labelforge.com/labelforge/internal/constants"
	model "labelforge.com/labelforge/internal/models"
)

var reviewTexts = []string{
	"The product quality exceeded my expectations. Fast shipping too!",
	"Terrible experience. The item arrived damaged and customer service was unhelpful.",
	"Average product, nothing special. It works as described.",
	"Absolutely love this! Best purchase I've made this year.",
	"Not worth the price. Cheaply made and fell apart after a week.",
	"Great value for money. Would definitely recommend to friends.",
	"The delivery was delayed by two weeks. Very disappointed.",
	"Excellent customer service. They resolved my issue immediately.",
	"Product looks nothing like the photos. Misleading advertisement.",
	"Solid build quality and works perfectly. Very satisfied.",
	"Returned it the same day. Complete waste of money.",
	"Good product but the instructions were confusing.",
	"Five stars! This is exactly what I was looking for.",
	"Mediocre at best. I've seen better alternatives for less.",
	"The packaging was eco-friendly which I really appreciate.",
	"Stopped working after three days. Requesting a refund.",
	"Surprisingly good quality for the price point.",
	"Would not recommend. Had a terrible experience overall.",
	"Perfect gift idea! My friend absolutely loved it.",
	"The sizing was completely off. Had to exchange twice.",
	"Incredible attention to detail. Clearly a premium product.",
	"It does the job but nothing more. Basic functionality.",
	"Worst purchase I've ever made. Stay away from this seller.",
	"Quick delivery and the product matched the description perfectly.",
	"The material feels cheap but it works fine for now.",
	"Outstanding quality! Already ordered two more for friends.",
	"Took forever to arrive and when it did, it was the wrong item.",
	"Decent product for everyday use. No complaints so far.",
	"Way too expensive for what you get. Not worth it.",
	"Love the design and functionality. Modern and sleek.",
	"Customer support ghosted me after I reported an issue.",
	"This replaced my old one and it's so much better.",
	"Fragile packaging. Arrived with a crack on the side.",
	"Highly recommend this to anyone looking for reliability.",
	"The app that comes with it is buggy and frustrating.",
	"Simple, effective, and affordable. What more could you ask for?",
	"I regret not buying this sooner. Game changer!",
	"False advertising. The features listed are not all included.",
	"My kids love this product. Great for the whole family.",
	"Overrated and overhyped. It's just an average product.",
}

var rejectionComments = []string{
	"The label doesn't match the sentiment. The text is clearly negative but was labeled positive.",
	"Please re-read the review more carefully. The overall tone is sarcastic, not genuinely positive.",
	"Incorrect label. This is a neutral statement, not a negative one.",
	"The reviewer is expressing satisfaction, this should be labeled positive.",
	"Mixed signals in the text but the dominant sentiment is negative. Please reconsider.",
	"This review is clearly positive despite mentioning a minor issue. Re-label accordingly.",
	"Wrong classification. Read the full context before assigning a label.",
	"The sarcasm in this review makes it negative, not positive. Please fix.",
	"Ambiguous text but the last sentence clarifies the sentiment. Re-evaluate.",
	"Missed the key negative phrase. The customer is clearly unsatisfied.",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo data",
	Long:  "Creates a demo project with 200 tasks in a realistic mix of workflow states",
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		db := config.NewDatabase(cfg.DatabaseDSN)

		var existing int64
		if err := db.Model(&model.Task{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			log.Println("data already seeded, skipping")
			return nil
		}

		rng := rand.New(rand.NewSource(42))
		now := time.Now().UTC()

		project := &model.Project{
			Name:        "Customer Sentiment Analysis",
			Description: "Classify customer reviews as positive, negative, or neutral sentiment.",
			CreatedBy:   "admin",
			CreatedAt:   now,
		}
		if err := db.Create(project).Error; err != nil {
			return err
		}

		dataset := &model.Dataset{
			ProjectID: project.ID,
			Name:      "Sentiment v2",
			Labels:    model.StringList{"positive", "negative", "neutral"},
			CreatedAt: now,
		}
		if err := db.Create(dataset).Error; err != nil {
			return err
		}

		labels := []string{"positive", "negative", "neutral"}
		annotator := "annotator"
		reviewer := "reviewer"

		tasks := make([]model.Task, 200)
		for i := range tasks {
			tasks[i] = model.Task{
				DatasetID:   dataset.ID,
				TextContent: reviewTexts[rng.Intn(len(reviewTexts))],
				Status:      constants.StatusUnclaimed,
			}
		}

		// 150 approved with review dates spread over the last month.
		for i := 0; i < 150; i++ {
			t := &tasks[i]
			reviewedAt := now.
				Add(-time.Duration(rng.Intn(30)+1) * 24 * time.Hour).
				Add(-time.Duration(rng.Intn(24)) * time.Hour)
			submittedAt := reviewedAt.Add(-time.Duration(rng.Intn(30)+1) * time.Minute)

			t.Status = constants.StatusApproved
			t.AssignedTo = &annotator
			t.Annotation = model.JSONMap{"label": labels[rng.Intn(len(labels))]}
			t.SubmittedAt = &submittedAt
			t.ReviewedBy = &reviewer
			t.ReviewedAt = &reviewedAt
			t.TimeSpentSeconds = rng.Intn(113) + 8
		}

		// 18 rejected, back in progress with their review metadata kept.
		for i := 150; i < 168; i++ {
			t := &tasks[i]
			submittedAt := now.Add(-time.Duration(rng.Intn(10)+1) * 24 * time.Hour)
			reviewedAt := submittedAt.Add(24 * time.Hour)

			t.Status = constants.StatusInProgress
			t.AssignedTo = &annotator
			t.Annotation = model.JSONMap{"label": labels[rng.Intn(len(labels))]}
			t.SubmittedAt = &submittedAt
			t.ReviewedBy = &reviewer
			t.ReviewedAt = &reviewedAt
			t.TimeSpentSeconds = rng.Intn(81) + 10
		}

		// 12 submitted, waiting for review.
		for i := 168; i < 180; i++ {
			t := &tasks[i]
			submittedAt := now.Add(-time.Duration(rng.Intn(48)+1) * time.Hour)

			t.Status = constants.StatusSubmitted
			t.AssignedTo = &annotator
			t.Annotation = model.JSONMap{"label": labels[rng.Intn(len(labels))]}
			t.SubmittedAt = &submittedAt
			t.TimeSpentSeconds = rng.Intn(66) + 15
		}

		// Remaining 20 stay unclaimed.

		if err := db.CreateInBatches(&tasks, 100).Error; err != nil {
			return err
		}

		comments := make([]model.Comment, 0, 18)
		for i := 150; i < 168; i++ {
			comments = append(comments, model.Comment{
				TaskID:    tasks[i].ID,
				AuthorID:  reviewer,
				Body:      rejectionComments[rng.Intn(len(rejectionComments))],
				CreatedAt: *tasks[i].ReviewedAt,
			})
		}
		if err := db.Create(&comments).Error; err != nil {
			return err
		}

		log.Println("seeded: 150 approved, 18 rejected (in_progress), 12 submitted, 20 unclaimed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
