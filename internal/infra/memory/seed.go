package memory

import (
	"github.com/google/uuid"
	"globetrotter/internal/domain"
)

// SeedDestinations is a small demo catalog so the memory driver can serve a
// full default round without an import.
func SeedDestinations() []domain.Destination {
	raw := []domain.Destination{
		{City: "Paris", Country: "France", Continent: domain.ContinentEurope, Difficulty: domain.DifficultyEasy,
			Clues:    []string{"This city is home to a famous tower that sparkles every night.", "Known as the 'City of Love' and a hub for fashion and art."},
			FunFacts: []string{"The Eiffel Tower was supposed to be dismantled after 20 years.", "Paris has only one stop sign in the entire city."},
			Trivia:   []string{"The Louvre is the world's most visited museum.", "Paris was originally a Roman city called Lutetia."}},
		{City: "Tokyo", Country: "Japan", Continent: domain.ContinentAsia, Difficulty: domain.DifficultyEasy,
			Clues:    []string{"This city hosts the world's busiest pedestrian crossing.", "It was once a small fishing village called Edo."},
			FunFacts: []string{"The metropolitan area is the most populous in the world.", "Train delays of five minutes can earn passengers a delay certificate."},
			Trivia:   []string{"It hosted the Summer Olympics in 1964 and 2021.", "It has more Michelin-starred restaurants than any other city."}},
		{City: "New York", Country: "United States", Continent: domain.ContinentNorthAmerica, Difficulty: domain.DifficultyEasy,
			Clues:    []string{"Home to a statue gifted by France in 1886.", "Its nickname is 'The Big Apple'."},
			FunFacts: []string{"More than 800 languages are spoken across its boroughs.", "The subway system has 472 stations."},
			Trivia:   []string{"It was briefly the capital of the United States.", "Central Park is larger than the principality of Monaco."}},
		{City: "Cairo", Country: "Egypt", Continent: domain.ContinentAfrica, Difficulty: domain.DifficultyMedium,
			Clues:    []string{"The last surviving ancient wonder stands just outside this city.", "It sits on the banks of the world's longest river."},
			FunFacts: []string{"Its name means 'The Victorious'.", "It is home to the oldest university still in operation, Al-Azhar."},
			Trivia:   []string{"Its metro was the first in Africa.", "The Khan el-Khalili bazaar dates to the 14th century."}},
		{City: "Rio de Janeiro", Country: "Brazil", Continent: domain.ContinentSouthAmerica, Difficulty: domain.DifficultyMedium,
			Clues:    []string{"A giant statue with outstretched arms overlooks this city.", "Its carnival is the largest in the world."},
			FunFacts: []string{"It was the capital of the Portuguese Empire for 13 years.", "Its name means 'River of January'."},
			Trivia:   []string{"Maracana stadium once held nearly 200,000 spectators.", "It hosted the first Olympics in South America."}},
		{City: "Sydney", Country: "Australia", Continent: domain.ContinentOceania, Difficulty: domain.DifficultyEasy,
			Clues:    []string{"Its harbour is framed by a sail-shaped performing arts venue.", "A steel arch bridge nicknamed 'The Coathanger' crosses its harbour."},
			FunFacts: []string{"Its opera house roof has over a million tiles.", "It has more than 100 beaches."},
			Trivia:   []string{"It was founded as a penal colony in 1788.", "It hosted the 2000 Summer Olympics."}},
		{City: "Reykjavik", Country: "Iceland", Continent: domain.ContinentEurope, Difficulty: domain.DifficultyHard,
			Clues:    []string{"The world's northernmost capital of a sovereign state.", "Much of its heating comes straight from the ground."},
			FunFacts: []string{"Its name translates to 'Smoky Bay'.", "There are no mosquitoes in the surrounding country."},
			Trivia:   []string{"It hosted the 1986 Reagan-Gorbachev summit.", "The Hallgrimskirkja church tower is its tallest landmark."}},
		{City: "Marrakech", Country: "Morocco", Continent: domain.ContinentAfrica, Difficulty: domain.DifficultyMedium,
			Clues:    []string{"Its central square fills with storytellers and snake charmers at dusk.", "Known as the 'Red City' for its sandstone walls."},
			FunFacts: []string{"The Jemaa el-Fnaa square is a UNESCO masterpiece of oral heritage.", "The Koutoubia minaret inspired the Giralda in Seville."},
			Trivia:   []string{"It was founded in 1070 by the Almoravids.", "The Majorelle Garden was once owned by Yves Saint Laurent."}},
		{City: "Kyoto", Country: "Japan", Continent: domain.ContinentAsia, Difficulty: domain.DifficultyMedium,
			Clues:    []string{"This former imperial capital has over 1,600 Buddhist temples.", "Thousands of vermilion gates line a mountain path here."},
			FunFacts: []string{"It was spared from atomic bombing for its cultural value.", "Its name simply means 'capital city'."},
			Trivia:   []string{"It was Japan's capital for more than a thousand years.", "The Kyoto Protocol on climate was adopted here in 1997."}},
		{City: "Cusco", Country: "Peru", Continent: domain.ContinentSouthAmerica, Difficulty: domain.DifficultyHard,
			Clues:    []string{"The historic capital of the Inca Empire.", "The usual gateway to a famous citadel in the clouds."},
			FunFacts: []string{"It sits at about 3,400 metres above sea level.", "Its original layout was said to be shaped like a puma."},
			Trivia:   []string{"Spanish buildings here stand on Inca stone foundations.", "Inti Raymi, the festival of the sun, is celebrated here every June."}},
		{City: "Vancouver", Country: "Canada", Continent: domain.ContinentNorthAmerica, Difficulty: domain.DifficultyMedium,
			Clues:    []string{"This port city is ringed by mountains and the Pacific.", "A 400-hectare park juts into the harbour next to downtown."},
			FunFacts: []string{"It is nicknamed 'Hollywood North' for its film industry.", "Greenpeace was founded here in 1971."},
			Trivia:   []string{"It hosted the 2010 Winter Olympics.", "Stanley Park is bigger than New York's Central Park."}},
		{City: "Queenstown", Country: "New Zealand", Continent: domain.ContinentOceania, Difficulty: domain.DifficultyHard,
			Clues:    []string{"Often called the adventure capital of the world.", "Commercial bungee jumping was born near this lakeside town."},
			FunFacts: []string{"The first commercial bungee site opened here in 1988.", "Scenes of a famous fantasy film trilogy were shot nearby."},
			Trivia:   []string{"It sits on the shores of Lake Wakatipu.", "Gold was discovered in the nearby Shotover River in 1862."}},
	}
	out := make([]domain.Destination, 0, len(raw))
	for _, d := range raw {
		d.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(domain.CatalogKey(d.City, d.Country))).String()
		out = append(out, d)
	}
	return out
}
