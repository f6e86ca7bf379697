package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/moviestore/moviestore/internal/repository"
)

type seedMovie struct {
	title       string
	releaseDate time.Time
	actors      string
	description string
	categories  []string
}

var seedCategories = []string{
	"Action", "Adventure", "Comedy", "Fantasy", "Drama", "Sci-fi", "Mystery",
}

var seedMovies = []seedMovie{
	{
		title:       "Guardians of the Galaxy Vol. 2",
		releaseDate: time.Date(2017, time.May, 5, 0, 0, 0, 0, time.UTC),
		actors:      "Chris Pratt, Zoe Saldana, Dave Bautista",
		description: "The Guardians struggle to keep together as a team while dealing with their personal family issues, notably Star-Lord's encounter with his father the ambitious celestial being Ego.",
		categories:  []string{"Action", "Adventure", "Comedy"},
	},
	{
		title:       "Star Wars",
		releaseDate: time.Date(1977, time.May, 25, 0, 0, 0, 0, time.UTC),
		actors:      "Mark Hamill, Harrison Ford, Carrie Fisher",
		description: "Luke Skywalker joins forces with a Jedi Knight, a cocky pilot, a Wookiee and two droids to save the galaxy from the Empire's world-destroying battle station, while also attempting to rescue Princess Leia from the mysterious Darth Vader",
		categories:  []string{"Action", "Adventure", "Fantasy"},
	},
	{
		title:       "Pirates of the Caribbean: The Curse of the Black Pearl",
		releaseDate: time.Date(2003, time.July, 9, 0, 0, 0, 0, time.UTC),
		actors:      "Johnny Depp, Geoffrey Rush, Orlando Bloom",
		description: "Blacksmith Will Turner teams up with eccentric pirate \"Captain\" Jack Sparrow to save his love, the governor's daughter, from Jack's former pirate allies, who are now undead.",
		categories:  []string{"Action", "Adventure", "Comedy"},
	},
	{
		title:       "The Lord of the Rings: The Fellowship of the Ring",
		releaseDate: time.Date(2001, time.December, 19, 0, 0, 0, 0, time.UTC),
		actors:      "Elijah Wood, Ian McKellen, Orlando Bloom",
		description: "A meek Hobbit from the Shire and eight companions set out on a journey to destroy the powerful One Ring and save Middle-earth from the Dark Lord Sauron.",
		categories:  []string{"Action", "Adventure", "Fantasy"},
	},
	{
		title:       "I, Robot",
		releaseDate: time.Date(2004, time.July, 16, 0, 0, 0, 0, time.UTC),
		actors:      "Will Smith, Bridget Moynahan, Bruce Greenwood",
		description: "In 2035, a technophobic cop investigates a crime that may have been perpetrated by a robot, which leads to a larger threat to humanity.",
		categories:  []string{"Action", "Sci-fi", "Mystery"},
	},
}

// Run seeds the catalog with the starter categories and movies. It is a
// no-op when either table already holds rows, so a restart never duplicates
// the data.
func Run(ctx context.Context, repo *repository.Repository, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	existingCategories, err := repo.Categories.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list categories: %w", err)
	}
	existingMovies, err := repo.Movies.Search(ctx, "")
	if err != nil {
		return fmt.Errorf("seed: list movies: %w", err)
	}
	if len(existingCategories) > 0 || len(existingMovies) > 0 {
		logger.Println("seed: catalog already populated, skipping")
		return nil
	}

	categoryIDs := make(map[string]string, len(seedCategories))
	for _, name := range seedCategories {
		category, err := repo.Categories.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("seed: create category %q: %w", name, err)
		}
		categoryIDs[name] = category.ID
	}

	for _, sm := range seedMovies {
		movie, err := repo.Movies.Create(ctx, repository.MovieCreateParams{
			Title:       sm.title,
			ReleaseDate: sm.releaseDate,
			Actors:      sm.actors,
			Description: sm.description,
		})
		if err != nil {
			return fmt.Errorf("seed: create movie %q: %w", sm.title, err)
		}
		for _, name := range sm.categories {
			if err := repo.Movies.AssignCategory(ctx, movie.ID, categoryIDs[name]); err != nil {
				return fmt.Errorf("seed: assign %q to %q: %w", name, sm.title, err)
			}
		}
	}

	logger.Printf("seed: inserted %d categories and %d movies", len(seedCategories), len(seedMovies))
	return nil
}
