package service

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
)

func (s *ProjectService) AddTask(projectID uint, description string) (*model.Task, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, wrapFind(err, "project %d not found", projectID)
	}
	task := &model.Task{ProjectID: projectID, Description: description}
	if err := s.db.Create(task).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return task, nil
}

func (s *ProjectService) ListTasks(projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.Where("project_id = ?", projectID).Order("id asc").Find(&tasks).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return tasks, nil
}

func (s *ProjectService) SetTaskDone(taskID uint, done bool) (*model.Task, error) {
	var task model.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		return nil, wrapFind(err, "task %d not found", taskID)
	}
	if err := s.db.Model(&model.Task{}).Where("id = ?", taskID).Update("done", done).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	task.Done = done
	return &task, nil
}

func (s *ProjectService) DeleteTask(taskID uint) error {
	res := s.db.Delete(&model.Task{}, taskID)
	if res.Error != nil {
		return apperr.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("task %d not found", taskID)
	}
	return nil
}
