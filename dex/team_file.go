package dex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNoSuchTeam = errors.New("no such team exists")

// TeamFile is a saved team on disk
type TeamFile struct {
	Name string      `yaml:"name"`
	Team []TeamEntry `yaml:"team"`
}

func LoadTeamFile(filePath string) (TeamFile, error) {
	teamFile, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TeamFile{}, fmt.Errorf("%w: %s", ErrNoSuchTeam, filePath)
		}

		return TeamFile{}, err
	}
	defer teamFile.Close()

	decoder := yaml.NewDecoder(teamFile)
	decoder.KnownFields(true)

	team := TeamFile{}
	if err := decoder.Decode(&team); err != nil {
		return TeamFile{}, fmt.Errorf("%w: %s: %w", ErrInvalidData, filePath, err)
	}

	return team, nil
}

// SaveTeamFile writes the team as yaml, creating the parent directories if needed
func SaveTeamFile(filePath string, team TeamFile) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return err
	}

	teamBytes, err := yaml.Marshal(team)
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, teamBytes, 0644)
}
